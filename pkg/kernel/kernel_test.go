package kernel

import (
	"testing"

	"github.com/chazu/structview/pkg/vec"
)

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []float32
		indices   []uint32
		wantVerts int
		wantTris  int
	}{
		{"empty", nil, nil, 0, 0},
		{"one vertex", []float32{1, 2, 3}, nil, 1, 0},
		{"quad", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, []uint32{0, 1, 2, 2, 3, 0}, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices, Indices: tt.indices}
			if got := m.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := m.TriangleCount(); got != tt.wantTris {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTris)
			}
			if got := m.IsEmpty(); got != (tt.wantVerts == 0) {
				t.Errorf("IsEmpty() = %v", got)
			}
		})
	}
}

// --- Interface check with a bounding-box-only kernel ---

type boxSolid struct {
	min, max vec.Vec3
}

func (s *boxSolid) BoundingBox() (vec.Vec3, vec.Vec3) { return s.min, s.max }

// boxKernel models every solid by its bounding box.
type boxKernel struct{}

func (boxKernel) Strut(a, b vec.Vec3, r float64) (Solid, error) {
	if r <= 0 || a.Distance(b) == 0 {
		return nil, ErrDegenerate
	}
	return &boxSolid{
		min: vec.New(min(a.X, b.X)-r, min(a.Y, b.Y)-r, min(a.Z, b.Z)-r),
		max: vec.New(max(a.X, b.X)+r, max(a.Y, b.Y)+r, max(a.Z, b.Z)+r),
	}, nil
}

func (boxKernel) Joint(c vec.Vec3, r float64) (Solid, error) {
	if r <= 0 {
		return nil, ErrDegenerate
	}
	d := vec.New(r, r, r)
	return &boxSolid{min: c.Sub(d), max: c.Add(d)}, nil
}

func (boxKernel) Union(solids ...Solid) Solid {
	if len(solids) == 0 {
		return nil
	}
	lo, hi := solids[0].BoundingBox()
	for _, s := range solids[1:] {
		a, b := s.BoundingBox()
		lo = vec.New(min(lo.X, a.X), min(lo.Y, a.Y), min(lo.Z, a.Z))
		hi = vec.New(max(hi.X, b.X), max(hi.Y, b.Y), max(hi.Z, b.Z))
	}
	return &boxSolid{min: lo, max: hi}
}

func (boxKernel) ToMesh(Solid) (*Mesh, error) { return &Mesh{}, nil }

var _ Kernel = boxKernel{}

func TestBoxKernelUnion(t *testing.T) {
	var k Kernel = boxKernel{}
	a, err := k.Strut(vec.Zero, vec.New(4, 0, 0), 0.5)
	if err != nil {
		t.Fatalf("Strut: %v", err)
	}
	b, err := k.Joint(vec.New(0, 3, 0), 1)
	if err != nil {
		t.Fatalf("Joint: %v", err)
	}
	lo, hi := k.Union(a, b).BoundingBox()
	if lo != vec.New(-1, -0.5, -1) {
		t.Errorf("union min = %v", lo)
	}
	if hi != vec.New(4.5, 4, 1) {
		t.Errorf("union max = %v", hi)
	}
	if k.Union() != nil {
		t.Error("empty union should be nil")
	}
}

func TestBoxKernelDegenerate(t *testing.T) {
	var k Kernel = boxKernel{}
	if _, err := k.Strut(vec.X, vec.X, 1); err != ErrDegenerate {
		t.Errorf("zero-length strut: err = %v", err)
	}
	if _, err := k.Joint(vec.Zero, 0); err != ErrDegenerate {
		t.Errorf("zero-radius joint: err = %v", err)
	}
}
