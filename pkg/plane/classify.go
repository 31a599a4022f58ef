package plane

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
)

// Orientation is the axis-aligned category of a plane normal.
type Orientation string

const (
	OrientationXY      Orientation = "XY" // normal along Z
	OrientationYZ      Orientation = "YZ" // normal along X
	OrientationXZ      Orientation = "XZ" // normal along Y
	OrientationGeneral Orientation = "general"
)

const axisAlignedThreshold = 0.99

// Classify categorizes a normal. Z is checked first, then X, then Y.
func Classify(normal vec.Vec3) Orientation {
	switch {
	case math.Abs(normal.Z) > axisAlignedThreshold:
		return OrientationXY
	case math.Abs(normal.X) > axisAlignedThreshold:
		return OrientationYZ
	case math.Abs(normal.Y) > axisAlignedThreshold:
		return OrientationXZ
	}
	return OrientationGeneral
}

// Color returns the display color conventionally used for the category.
func (o Orientation) Color() string {
	switch o {
	case OrientationXY:
		return "#ff4444"
	case OrientationYZ:
		return "#4488ff"
	case OrientationXZ:
		return "#44cc44"
	}
	return "#ffcc00"
}

// AxisPlane maps an axis-aligned orientation to the matching world plane.
// General orientations report false.
func (o Orientation) AxisPlane() (model.AxisPlane, bool) {
	switch o {
	case OrientationXY:
		return model.PlaneXY, true
	case OrientationYZ:
		return model.PlaneYZ, true
	case OrientationXZ:
		return model.PlaneXZ, true
	}
	return "", false
}

// AxisNormals maps the axis shortcut keys to target normals. Each key puts
// its axis inside the resulting plane: x gives the floor (XY), y the side
// wall (YZ), z the front wall (XZ).
var AxisNormals = map[string]vec.Vec3{
	"x": vec.Z,
	"y": vec.X,
	"z": vec.Y,
}
