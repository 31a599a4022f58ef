// Package kernel defines the abstract geometry kernel used to build solid
// previews of a structure. Members become struts and nodes become joints;
// the sdfx subpackage provides the implementation.
package kernel

import (
	"errors"

	"github.com/chazu/structview/pkg/vec"
)

// ErrDegenerate is returned for a strut with coincident ends or a
// non-positive radius.
var ErrDegenerate = errors.New("kernel: degenerate solid")

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max vec.Vec3)
}

// Kernel builds and meshes solids.
type Kernel interface {
	// Strut is a round bar of the given radius from a to b.
	Strut(a, b vec.Vec3, radius float64) (Solid, error)
	// Joint is a sphere centered on a node.
	Joint(center vec.Vec3, radius float64) (Solid, error)

	// Union merges solids. It returns nil for no solids.
	Union(solids ...Solid) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
