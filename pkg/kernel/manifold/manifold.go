//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Unlike the sdfx
// kernel it meshes struts and joints exactly instead of sampling a
// distance field, which keeps fused previews of large structures small.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/structview/pkg/kernel"
	"github.com/chazu/structview/pkg/vec"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (lo, hi vec.Vec3) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	lo = vec.New(
		float64(C.manifold_box_min_x(bbox)),
		float64(C.manifold_box_min_y(bbox)),
		float64(C.manifold_box_min_z(bbox)))
	hi = vec.New(
		float64(C.manifold_box_max_x(bbox)),
		float64(C.manifold_box_max_y(bbox)),
		float64(C.manifold_box_max_z(bbox)))
	return lo, hi
}

// newSolid wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct {
	segments int
}

// New creates a new ManifoldKernel. segments is the number of sides used
// for struts and joints; values below DefaultSegments are raised to it.
func New(segments int) (kernel.Kernel, error) {
	if segments < DefaultSegments {
		segments = DefaultSegments
	}
	return &ManifoldKernel{segments: segments}, nil
}

// Strut builds a cylinder from a to b. Manifold cylinders start on the
// origin and run up Z, so the cylinder is tilted about Y onto the member
// direction, turned about Z, and moved to a.
func (k *ManifoldKernel) Strut(a, b vec.Vec3, radius float64) (kernel.Solid, error) {
	length := a.Distance(b)
	if length < vec.LengthEpsilon || radius <= 0 {
		return nil, fmt.Errorf("manifold: strut %s-%s r=%g: %w", a, b, radius, kernel.ErrDegenerate)
	}
	dir := b.Sub(a).Normalize()
	tilt := math.Acos(math.Max(-1, math.Min(1, dir.Z))) * 180 / math.Pi
	turn := math.Atan2(dir.Y, dir.X) * 180 / math.Pi

	cyl := newSolid(C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(length),
		C.double(radius), // radius_low
		C.double(radius), // radius_high (same = not tapered)
		C.int(k.segments),
		C.int(0), // center=false
	))
	rotated := newSolid(C.manifold_rotate(C.manifold_alloc_manifold(), cyl.ptr,
		C.double(0), C.double(tilt), C.double(turn)))
	return k.translate(rotated, a), nil
}

// Joint builds a sphere at center.
func (k *ManifoldKernel) Joint(center vec.Vec3, radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("manifold: joint r=%g: %w", radius, kernel.ErrDegenerate)
	}
	sphere := newSolid(C.manifold_sphere(C.manifold_alloc_manifold(),
		C.double(radius), C.int(k.segments)))
	return k.translate(sphere, center), nil
}

func (k *ManifoldKernel) translate(s *manifoldSolid, to vec.Vec3) *manifoldSolid {
	return newSolid(C.manifold_translate(C.manifold_alloc_manifold(), s.ptr,
		C.double(to.X), C.double(to.Y), C.double(to.Z)))
}

// Union returns the boolean union of the solids, folded left to right.
func (k *ManifoldKernel) Union(solids ...kernel.Solid) kernel.Solid {
	if len(solids) == 0 {
		return nil
	}
	acc := solids[0].(*manifoldSolid)
	for _, s := range solids[1:] {
		next := s.(*manifoldSolid)
		acc = newSolid(C.manifold_union(C.manifold_alloc_manifold(), acc.ptr, next.ptr))
	}
	return acc
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if s == nil {
		return nil, fmt.Errorf("manifold: nil solid")
	}
	ms := s.(*manifoldSolid)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// The first 3 properties are always position (x, y, z). Normals, when
	// present, follow at 3, 4, 5.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propData := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		copy(vertices[i*3:i*3+3], propData[base:base+3])
		if hasNormals {
			copy(normals[i*3:i*3+3], propData[base+3:base+6])
		}
	}

	if !hasNormals {
		normals = vertexNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}
	return mesh, nil
}
