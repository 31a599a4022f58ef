// Package plane implements the working plane: an orthonormal frame
// (normal, tangentU, tangentV) anchored at a point, used to draw and snap 2D
// geometry in 3D space. Planes are values; every operation returns a new
// plane and leaves its input untouched.
package plane

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
)

// ConstraintType records how many selected points fixed the plane.
type ConstraintType string

const (
	// ConstraintPoint planes pass through at most one point and rotate freely.
	ConstraintPoint ConstraintType = "point"
	// ConstraintLine planes contain a line and rotate only around it.
	ConstraintLine ConstraintType = "line"
	// ConstraintPlane planes are fixed by three points.
	ConstraintPlane ConstraintType = "plane"
)

const (
	// CollinearEpsilon is the cross product magnitude below which three
	// points are treated as collinear.
	CollinearEpsilon = 1e-10
	// DefaultOnPlaneThreshold is the distance within which a point lies on a plane.
	DefaultOnPlaneThreshold = 0.01
	// DefaultNearPlaneTolerance is the wider distance used for cross-plane
	// visibility. It never affects snapping.
	DefaultNearPlaneTolerance = 0.5

	// tangentEpsilon guards the projection of a world axis onto the plane.
	tangentEpsilon = 1e-6
	// frameEpsilon is the tolerance used by Valid.
	frameEpsilon = 1e-6
)

// WorkingPlane is an oriented plane with a right-handed tangent frame:
// TangentU × TangentV == Normal, all unit length.
type WorkingPlane struct {
	ID               string         `json:"id" yaml:"id"`
	Normal           vec.Vec3       `json:"normal" yaml:"normal"`
	Point            vec.Vec3       `json:"point" yaml:"point"`
	ConstraintType   ConstraintType `json:"constraintType" yaml:"constraint_type"`
	ConstraintPoints []vec.Vec3     `json:"constraintPoints" yaml:"constraint_points"`
	TangentU         vec.Vec3       `json:"tangentU" yaml:"tangent_u"`
	TangentV         vec.Vec3       `json:"tangentV" yaml:"tangent_v"`
}

// NewCounter returns the resettable "plane-N" id source used for plane ids.
func NewCounter() *model.Sequence {
	return model.NewSequence("plane")
}

// FromPoints builds a plane from up to three points; extra points are
// ignored. ids supplies the plane id and may be nil for an anonymous plane.
//
//   - 0 or 1 points: horizontal plane (normal +Z) through the origin or the
//     point, ConstraintPoint.
//   - 2 points: ConstraintLine through both, normal perpendicular to the line
//     and to the world axis least aligned with it.
//   - 3 points: ConstraintPlane through all three with the normal flipped to
//     point up. Collinear triples fall back to the line case on the first two.
func FromPoints(ids model.IDGenerator, points ...vec.Vec3) WorkingPlane {
	var id string
	if ids != nil {
		id = ids.NewID()
	}

	switch len(points) {
	case 0, 1:
		p := WorkingPlane{
			ID:               id,
			Normal:           vec.Z,
			ConstraintType:   ConstraintPoint,
			ConstraintPoints: []vec.Vec3{},
		}
		if len(points) == 1 {
			p.Point = points[0]
			p.ConstraintPoints = []vec.Vec3{points[0]}
		}
		p.TangentU, p.TangentV = freeTangents(p.Normal)
		return p
	case 2:
		return lineFrame(id, points[0], points[1])
	}

	p0, p1, p2 := points[0], points[1], points[2]
	raw := p1.Sub(p0).Cross(p2.Sub(p0))
	if raw.Length() < CollinearEpsilon {
		return lineFrame(id, p0, p1)
	}
	n := raw.Normalize()
	if n.Z < 0 {
		n = n.Negate()
	}
	u := p1.Sub(p0).Normalize()
	return WorkingPlane{
		ID:               id,
		Normal:           n,
		Point:            p0,
		ConstraintType:   ConstraintPlane,
		ConstraintPoints: []vec.Vec3{p0, p1, p2},
		TangentU:         u,
		TangentV:         n.Cross(u).Normalize(),
	}
}

// freeTangents derives the frame of an unconstrained plane: V tracks world
// vertical (world Y when the plane is horizontal), U = V × N.
func freeTangents(n vec.Vec3) (u, v vec.Vec3) {
	v = vec.Z.Reject(n)
	if v.Length() < tangentEpsilon {
		v = vec.Y.Reject(n)
	}
	v = v.Normalize()
	u = v.Cross(n).Normalize()
	return u, v
}

func lineFrame(id string, p0, p1 vec.Vec3) WorkingPlane {
	dir := p1.Sub(p0).Normalize()
	n := dir.Cross(leastAlignedAxis(dir)).Normalize()
	return WorkingPlane{
		ID:               id,
		Normal:           n,
		Point:            p0,
		ConstraintType:   ConstraintLine,
		ConstraintPoints: []vec.Vec3{p0, p1},
		TangentU:         dir,
		TangentV:         n.Cross(dir).Normalize(),
	}
}

// leastAlignedAxis returns the world axis with the smallest |dot| with d.
// Ties keep the earlier axis in X, Y, Z order.
func leastAlignedAxis(d vec.Vec3) vec.Vec3 {
	best := vec.X
	least := math.Abs(d.Dot(vec.X))
	for _, axis := range [...]vec.Vec3{vec.Y, vec.Z} {
		if a := math.Abs(d.Dot(axis)); a < least {
			least, best = a, axis
		}
	}
	return best
}

// LineDirection returns the unit direction of a line constraint, or false
// when the plane does not carry two constraint points.
func (p WorkingPlane) LineDirection() (vec.Vec3, bool) {
	if len(p.ConstraintPoints) < 2 {
		return vec.Vec3{}, false
	}
	return p.ConstraintPoints[1].Sub(p.ConstraintPoints[0]).Normalize(), true
}

// Distance returns the signed distance from q to the plane along its normal.
func Distance(q vec.Vec3, p WorkingPlane) float64 {
	return q.Sub(p.Point).Dot(p.Normal)
}

// IsOnPlane reports whether q lies strictly within threshold of the plane.
func IsOnPlane(q vec.Vec3, p WorkingPlane, threshold float64) bool {
	return math.Abs(Distance(q, p)) < threshold
}

// IsNearPlane reports whether q lies within tolerance of the plane,
// boundary included.
func IsNearPlane(q vec.Vec3, p WorkingPlane, tolerance float64) bool {
	return math.Abs(Distance(q, p)) <= tolerance
}

// Valid checks the frame invariants: unit, mutually orthogonal, right-handed
// tangents and a constraint point count matching the constraint type.
func Valid(p WorkingPlane) bool {
	for _, v := range [...]vec.Vec3{p.Normal, p.TangentU, p.TangentV} {
		if math.Abs(v.Length()-1) > frameEpsilon {
			return false
		}
	}
	if math.Abs(p.Normal.Dot(p.TangentU)) > frameEpsilon ||
		math.Abs(p.Normal.Dot(p.TangentV)) > frameEpsilon ||
		math.Abs(p.TangentU.Dot(p.TangentV)) > frameEpsilon {
		return false
	}
	if !p.TangentU.Cross(p.TangentV).ApproxEqual(p.Normal, frameEpsilon) {
		return false
	}

	switch p.ConstraintType {
	case ConstraintPoint:
		return len(p.ConstraintPoints) <= 1
	case ConstraintLine:
		return len(p.ConstraintPoints) == 2
	case ConstraintPlane:
		return len(p.ConstraintPoints) == 3
	}
	return false
}
