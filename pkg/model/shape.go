package model

import (
	"github.com/chazu/structview/pkg/vec"
)

// AxisPlane names one of the three world coordinate planes.
type AxisPlane string

const (
	PlaneXY AxisPlane = "XY"
	PlaneXZ AxisPlane = "XZ"
	PlaneYZ AxisPlane = "YZ"
)

// Normal returns the world axis perpendicular to the plane. Unknown values
// are treated as XY.
func (a AxisPlane) Normal() vec.Vec3 {
	switch a {
	case PlaneXZ:
		return vec.Y
	case PlaneYZ:
		return vec.X
	}
	return vec.Z
}

// Shape2DNode is a point in a shape's local 2D coordinates.
type Shape2DNode struct {
	ID string  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// Shape2DMember connects two shape nodes. At most one member of a shape
// should be flagged as the snap edge.
type Shape2DMember struct {
	ID         string `json:"id" yaml:"id"`
	StartNode  string `json:"startNode" yaml:"start_node"`
	EndNode    string `json:"endNode" yaml:"end_node"`
	IsSnapEdge bool   `json:"isSnapEdge" yaml:"is_snap_edge"`
}

// Shape2D is a reusable 2D template that can be placed into the 3D model.
type Shape2D struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Nodes          []Shape2DNode   `json:"nodes" yaml:"nodes"`
	Members        []Shape2DMember `json:"members" yaml:"members"`
	PlacementPlane AxisPlane       `json:"placementPlane,omitempty" yaml:"placement_plane,omitempty"`
}

// NodeByID returns the shape node with the given id.
func (s Shape2D) NodeByID(id string) (Shape2DNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Shape2DNode{}, false
}

// TargetEdge is a 3D edge a shape's snap edge is aligned to.
type TargetEdge struct {
	Start vec.Vec3 `json:"start" yaml:"start"`
	End   vec.Vec3 `json:"end" yaml:"end"`
}

// Vector returns End - Start.
func (e TargetEdge) Vector() vec.Vec3 { return e.End.Sub(e.Start) }

// Length returns the edge length.
func (e TargetEdge) Length() float64 { return e.Start.Distance(e.End) }
