// Package move computes rigid moves of placed trusses: translation
// constrained to a world coordinate plane, keyboard nudges and rotation
// about the truss centroid.
package move

import (
	"fmt"
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
)

// Direction is a nudge direction. Left and right move along the plane's
// first axis, up and down along its second.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Left, Right, Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("move: unknown direction %q", s)
}

// planeAxes returns the component indices (0=x, 1=y, 2=z) spanning ap.
func planeAxes(ap model.AxisPlane) (int, int) {
	switch ap {
	case model.PlaneXZ:
		return 0, 2
	case model.PlaneYZ:
		return 1, 2
	}
	return 0, 1
}

func components(v vec.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func fromComponents(c [3]float64) vec.Vec3 { return vec.New(c[0], c[1], c[2]) }

// Centroid returns the mean position of nodes, or the origin for none.
func Centroid(nodes []model.Node) vec.Vec3 {
	if len(nodes) == 0 {
		return vec.Zero
	}
	sum := vec.Zero
	for _, n := range nodes {
		sum = sum.Add(n.Position)
	}
	return sum.Scale(1 / float64(len(nodes)))
}

// ConstrainToPlane keeps the two components of delta that lie in ap and
// zeroes the third.
func ConstrainToPlane(delta vec.Vec3, ap model.AxisPlane) vec.Vec3 {
	a1, a2 := planeAxes(ap)
	in := components(delta)
	var out [3]float64
	out[a1], out[a2] = in[a1], in[a2]
	return fromComponents(out)
}

// Nudge returns the step delta for one key press in ap.
func Nudge(d Direction, ap model.AxisPlane, step float64) vec.Vec3 {
	a1, a2 := planeAxes(ap)
	var out [3]float64
	switch d {
	case Right:
		out[a1] = step
	case Left:
		out[a1] = -step
	case Up:
		out[a2] = step
	case Down:
		out[a2] = -step
	}
	return fromComponents(out)
}

// SnapAngle rounds deg to the nearest multiple of step, half-way values
// going toward +Inf. A non-positive step leaves deg unchanged.
func SnapAngle(deg, step float64) float64 {
	if step <= 0 {
		return deg
	}
	return math.Floor(deg/step+0.5) * step
}

// RotateAroundPivot rotates points by deg degrees about the normal of ap
// through pivot. The input slice is not modified.
func RotateAroundPivot(points []vec.Vec3, pivot vec.Vec3, deg float64, ap model.AxisPlane) []vec.Vec3 {
	axis := ap.Normal()
	out := make([]vec.Vec3, len(points))
	for i, p := range points {
		out[i] = pivot.Add(plane.RodriguesRotate(p.Sub(pivot), axis, deg))
	}
	return out
}

// ProjectToAxisPlane intersects the line origin + t*dir with the plane
// parallel to ap through point. Unlike plane.Raycast it accepts
// intersections behind the origin; it reports false only for a parallel
// ray.
func ProjectToAxisPlane(origin, dir, point vec.Vec3, ap model.AxisPlane) (vec.Vec3, bool) {
	n := ap.Normal()
	denom := n.Dot(dir)
	if math.Abs(denom) < plane.ParallelEpsilon {
		return vec.Vec3{}, false
	}
	t := n.Dot(point.Sub(origin)) / denom
	return origin.Add(dir.Scale(t)), true
}

// TranslateTruss returns a copy of s with every node of the truss moved by
// delta. s itself is not modified.
func TranslateTruss(s *model.Structure, trussID string, delta vec.Vec3) *model.Structure {
	out := s.Clone()
	for i, n := range out.Nodes {
		if n.TrussID == trussID {
			out.Nodes[i].Position = n.Position.Add(delta)
		}
	}
	return out
}

// RotateTruss returns a copy of s with the truss rotated by deg degrees in
// ap about its centroid.
func RotateTruss(s *model.Structure, trussID string, deg float64, ap model.AxisPlane) *model.Structure {
	out := s.Clone()
	pivot := Centroid(s.TrussNodes(trussID))
	axis := ap.Normal()
	for i, n := range out.Nodes {
		if n.TrussID == trussID {
			out.Nodes[i].Position = pivot.Add(plane.RodriguesRotate(n.Position.Sub(pivot), axis, deg))
		}
	}
	return out
}
