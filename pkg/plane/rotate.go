package plane

import (
	"math"

	"github.com/chazu/structview/pkg/vec"
)

// TapAngle is the rotation in degrees applied by a single discrete input.
const TapAngle = 0.5

const (
	// alignPerpendicularLimit is the largest |target·line| accepted when
	// aligning a line-constrained plane.
	alignPerpendicularLimit = 0.01
	// alignedDot is the normal·target above which a plane is already aligned.
	alignedDot = 0.9999
	// onSnapEpsilon is the angular distance in degrees below which a normal
	// already sits on a snap multiple.
	onSnapEpsilon = 1e-9
)

// RodriguesRotate rotates v by deg degrees around the unit axis.
func RodriguesRotate(v, axis vec.Vec3, deg float64) vec.Vec3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return v.Scale(cos).
		Add(axis.Cross(v).Scale(sin)).
		Add(axis.Scale(axis.Dot(v) * (1 - cos)))
}

// Rotate applies one rotation to the whole frame and renormalizes each
// vector, which keeps the frame orthonormal across many small rotations.
// Identity fields are carried over unchanged.
func Rotate(p WorkingPlane, axis vec.Vec3, deg float64) WorkingPlane {
	out := p
	out.Normal = RodriguesRotate(p.Normal, axis, deg).Normalize()
	out.TangentU = RodriguesRotate(p.TangentU, axis, deg).Normalize()
	out.TangentV = RodriguesRotate(p.TangentV, axis, deg).Normalize()
	return out
}

// Axes holds the rotation axes a plane's constraint permits. A nil entry
// means that rotation is locked.
type Axes struct {
	Horizontal *vec.Vec3 `json:"horizontal"`
	Vertical   *vec.Vec3 `json:"vertical"`
}

// RotationAxes reports the free rotation axes: both tangents for a point
// constraint, the constraint line for a line constraint, none for a plane.
func RotationAxes(p WorkingPlane) Axes {
	switch p.ConstraintType {
	case ConstraintPlane:
		return Axes{}
	case ConstraintLine:
		dir, ok := p.LineDirection()
		if !ok {
			dir = p.TangentU
		}
		return Axes{Horizontal: &dir}
	}
	u, v := p.TangentU, p.TangentV
	return Axes{Horizontal: &u, Vertical: &v}
}

// snapAxes are checked in this order; the first axis within threshold wins.
var snapAxes = [...]vec.Vec3{
	vec.X, vec.Y, vec.Z,
	vec.X.Negate(), vec.Y.Negate(), vec.Z.Negate(),
}

// AngleSnap snaps a plane normal to multiples of Interval degrees measured
// from the signed world axes.
type AngleSnap struct {
	Interval  float64 `yaml:"interval"`
	Threshold float64 `yaml:"threshold"`
}

// DefaultAngleSnap snaps to 15° multiples within 1°.
var DefaultAngleSnap = AngleSnap{Interval: 15, Threshold: 1}

// Apply rotates p around axis so its angle to the first signed world axis
// that sits within Threshold of (but not exactly on) an Interval multiple
// lands exactly on that multiple. It reports false and returns p unchanged
// when no axis qualifies.
func (s AngleSnap) Apply(p WorkingPlane, axis vec.Vec3) (WorkingPlane, bool) {
	if s.Interval <= 0 {
		return p, false
	}
	for _, world := range snapAxes {
		angle := angleBetween(p.Normal, world)
		nearest := math.Round(angle/s.Interval) * s.Interval
		diff := math.Abs(angle - nearest)
		if diff > onSnapEpsilon && diff < s.Threshold {
			return Rotate(p, axis, nearest-angle), true
		}
	}
	return p, false
}

// SnapAngle applies DefaultAngleSnap.
func SnapAngle(p WorkingPlane, axis vec.Vec3) (WorkingPlane, bool) {
	return DefaultAngleSnap.Apply(p, axis)
}

func angleBetween(a, b vec.Vec3) float64 {
	d := math.Max(-1, math.Min(1, a.Dot(b)))
	return math.Acos(d) * 180 / math.Pi
}

// AlignToAxis turns p so its normal equals target, keeping TangentU as
// close to its old direction as possible. It reports false and returns p
// unchanged when p is fully constrained, when p is line-constrained and
// target is not perpendicular to the line, or when p is already aligned.
func AlignToAxis(p WorkingPlane, target vec.Vec3) (WorkingPlane, bool) {
	if p.ConstraintType == ConstraintPlane {
		return p, false
	}
	n := target.Normalize()
	if p.ConstraintType == ConstraintLine {
		if dir, ok := p.LineDirection(); ok && math.Abs(n.Dot(dir)) > alignPerpendicularLimit {
			return p, false
		}
	}
	if p.Normal.Dot(n) > alignedDot {
		return p, false
	}

	u := p.TangentU.Reject(n)
	if u.Length() < tangentEpsilon {
		u = p.TangentV.Reject(n)
	}
	u = u.Normalize()

	out := p
	out.Normal = n
	out.TangentU = u
	out.TangentV = n.Cross(u).Normalize()
	return out, true
}

// SpeedRamp maps how long a rotation key has been held to an angular speed
// in degrees per second: a linear ramp from Min to Max over Ramp seconds.
type SpeedRamp struct {
	Min  float64 `yaml:"min_speed"`
	Max  float64 `yaml:"max_speed"`
	Ramp float64 `yaml:"ramp_seconds"`
}

// DefaultSpeedRamp ramps from 5°/s to 180°/s over two seconds.
var DefaultSpeedRamp = SpeedRamp{Min: 5, Max: 180, Ramp: 2}

// Speed returns the angular speed after holding for hold seconds.
func (r SpeedRamp) Speed(hold float64) float64 {
	t := 1.0
	if r.Ramp > 0 {
		t = math.Max(0, math.Min(1, hold/r.Ramp))
	}
	return r.Min + t*(r.Max-r.Min)
}

// Step returns the angle to rotate during a frame of dt seconds.
func (r SpeedRamp) Step(hold, dt float64) float64 {
	return r.Speed(hold) * dt
}

// RotationSpeed applies DefaultSpeedRamp.
func RotationSpeed(hold float64) float64 {
	return DefaultSpeedRamp.Speed(hold)
}
