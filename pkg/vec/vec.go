// Package vec provides the 3D vector value type shared by the structview
// geometry packages. Arithmetic is delegated to github.com/golang/geo/r3;
// Vec3 adds serialization tags and the zero-length fallback used throughout
// the engine.
package vec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// LengthEpsilon is the length below which a vector is treated as zero.
const LengthEpsilon = 1e-12

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// World axes.
var (
	Zero = Vec3{}
	X    = Vec3{X: 1}
	Y    = Vec3{Y: 1}
	Z    = Vec3{Z: 1}
)

// New returns the vector (x, y, z).
func New(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// FromR3 converts an r3.Vector.
func FromR3(r r3.Vector) Vec3 { return Vec3(r) }

// R3 converts v to an r3.Vector.
func (v Vec3) R3() r3.Vector { return r3.Vector(v) }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return FromR3(v.R3().Add(o.R3())) }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return FromR3(v.R3().Sub(o.R3())) }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return FromR3(v.R3().Mul(s)) }

// Negate returns -v.
func (v Vec3) Negate() Vec3 { return v.Scale(-1) }

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 { return v.R3().Dot(o.R3()) }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 { return FromR3(v.R3().Cross(o.R3())) }

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 { return v.R3().Norm() }

// Distance returns the Euclidean distance between two points.
func (v Vec3) Distance(o Vec3) float64 { return v.R3().Distance(o.R3()) }

// Normalize returns the unit vector in the direction of v. Vectors shorter
// than LengthEpsilon normalize to +Z so callers never see NaN.
func (v Vec3) Normalize() Vec3 {
	n := v.Length()
	if n < LengthEpsilon {
		return Z
	}
	return v.Scale(1 / n)
}

// Reject returns the component of v perpendicular to the unit vector n.
func (v Vec3) Reject(n Vec3) Vec3 { return v.Sub(n.Scale(v.Dot(n))) }

// Lerp returns v + t*(o - v).
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// Midpoint returns the point halfway between v and o.
func (v Vec3) Midpoint(o Vec3) Vec3 { return v.Lerp(o, 0.5) }

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Parse reads a vector written as "x,y,z". Surrounding parentheses and
// whitespace are ignored.
func Parse(s string) (Vec3, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vec3{}, fmt.Errorf("vec: parse %q: expected 3 components, got %d", s, len(parts))
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("vec: parse %q: %w", s, err)
		}
		c[i] = f
	}
	return Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}
