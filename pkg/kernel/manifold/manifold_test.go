//go:build manifold

package manifold

import (
	"errors"
	"testing"

	"github.com/chazu/structview/pkg/kernel"
	"github.com/chazu/structview/pkg/vec"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New(32)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func TestStrutBoundingBox(t *testing.T) {
	k := mustNew(t)
	tests := []struct {
		name string
		a, b vec.Vec3
	}{
		{"vertical", vec.New(0, 0, 0), vec.New(0, 0, 4)},
		{"along x", vec.New(1, 2, 3), vec.New(5, 2, 3)},
		{"along -y", vec.New(0, 3, 0), vec.New(0, -1, 0)},
		{"diagonal", vec.New(0, 0, 0), vec.New(2, 2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := k.Strut(tt.a, tt.b, 0.1)
			if err != nil {
				t.Fatal(err)
			}
			lo, hi := s.BoundingBox()
			// The box must contain both end centers and stay within a
			// radius of the segment's own box.
			for _, p := range []vec.Vec3{tt.a, tt.b} {
				if p.X < lo.X-1e-6 || p.Y < lo.Y-1e-6 || p.Z < lo.Z-1e-6 ||
					p.X > hi.X+1e-6 || p.Y > hi.Y+1e-6 || p.Z > hi.Z+1e-6 {
					t.Errorf("end %v outside box %v..%v", p, lo, hi)
				}
			}
			if lo.X < min(tt.a.X, tt.b.X)-0.1-1e-6 || hi.X > max(tt.a.X, tt.b.X)+0.1+1e-6 {
				t.Errorf("x extent %f..%f too wide", lo.X, hi.X)
			}
		})
	}
}

func TestStrutDegenerate(t *testing.T) {
	k := mustNew(t)
	if _, err := k.Strut(vec.New(1, 1, 1), vec.New(1, 1, 1), 0.1); !errors.Is(err, kernel.ErrDegenerate) {
		t.Errorf("coincident ends: err = %v", err)
	}
	if _, err := k.Strut(vec.Zero, vec.X, 0); !errors.Is(err, kernel.ErrDegenerate) {
		t.Errorf("zero radius: err = %v", err)
	}
	if _, err := k.Joint(vec.Zero, -1); !errors.Is(err, kernel.ErrDegenerate) {
		t.Errorf("negative joint radius: err = %v", err)
	}
}

func TestJointAndUnionMesh(t *testing.T) {
	k := mustNew(t)
	strut, err := k.Strut(vec.Zero, vec.X, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	a, err := k.Joint(vec.Zero, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := k.Joint(vec.X, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	mesh, err := k.ToMesh(k.Union(strut, a, b))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("ToMesh() returned empty mesh")
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length = %d, vertices length = %d, want equal",
			len(mesh.Normals), len(mesh.Vertices))
	}
	lo, hi := k.Union(strut, a, b).BoundingBox()
	if lo.X > -0.09 || hi.X < 1.09 {
		t.Errorf("union x extent %f..%f should include both joints", lo.X, hi.X)
	}
	if k.Union() != nil {
		t.Error("Union() of nothing should be nil")
	}
}
