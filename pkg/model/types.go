package model

import (
	"github.com/chazu/structview/pkg/vec"
)

// SupportType is the boundary condition at a node.
type SupportType string

const (
	SupportFree    SupportType = "free"
	SupportPinned  SupportType = "pinned"
	SupportFixed   SupportType = "fixed"
	SupportRollerX SupportType = "roller_x"
	SupportRollerY SupportType = "roller_y"
	SupportRollerZ SupportType = "roller_z"
)

// ConnectionType describes how members meet at a node.
type ConnectionType string

const (
	ConnectionRigid     ConnectionType = "rigid"
	ConnectionPinned    ConnectionType = "pinned"
	ConnectionSemiRigid ConnectionType = "semi_rigid"
)

// Support holds a node's boundary condition.
type Support struct {
	Type SupportType `json:"type" yaml:"type"`
}

// Node is a point in the 3D structural model.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Position   vec.Vec3       `json:"position" yaml:"position"`
	Support    Support        `json:"support" yaml:"support"`
	Connection ConnectionType `json:"connection_type" yaml:"connection_type"`
	TrussID    string         `json:"trussId,omitempty" yaml:"truss_id,omitempty"`
	Tags       []string       `json:"tags" yaml:"tags"`
}

// Material carries the elastic properties of a member.
type Material struct {
	Name          string  `json:"name" yaml:"name"`
	E             float64 `json:"E" yaml:"e"`
	G             float64 `json:"G" yaml:"g"`
	Density       float64 `json:"density" yaml:"density"`
	YieldStrength float64 `json:"yield_strength" yaml:"yield_strength"`
}

// Section carries cross-section properties of a member.
type Section struct {
	Name string  `json:"name" yaml:"name"`
	A    float64 `json:"A" yaml:"a"`
	Ix   float64 `json:"Ix" yaml:"ix"`
	Iy   float64 `json:"Iy" yaml:"iy"`
	Sx   float64 `json:"Sx" yaml:"sx"`
	Sy   float64 `json:"Sy" yaml:"sy"`
	J    float64 `json:"J" yaml:"j"`
}

// Release marks which degrees of freedom are released at one member end.
type Release struct {
	Fx bool `json:"fx" yaml:"fx"`
	Fy bool `json:"fy" yaml:"fy"`
	Fz bool `json:"fz" yaml:"fz"`
	Mx bool `json:"mx" yaml:"mx"`
	My bool `json:"my" yaml:"my"`
	Mz bool `json:"mz" yaml:"mz"`
}

// EndReleases holds the releases at both member ends.
type EndReleases struct {
	Start Release `json:"start" yaml:"start"`
	End   Release `json:"end" yaml:"end"`
}

// Member connects two nodes. A member whose StartNode equals its EndNode is
// degenerate and is never produced by the engine.
type Member struct {
	ID          string      `json:"id" yaml:"id"`
	StartNode   string      `json:"start_node" yaml:"start_node"`
	EndNode     string      `json:"end_node" yaml:"end_node"`
	Material    Material    `json:"material" yaml:"material"`
	Section     Section     `json:"section" yaml:"section"`
	EndReleases EndReleases `json:"end_releases" yaml:"end_releases"`
	TrussID     string      `json:"trussId,omitempty" yaml:"truss_id,omitempty"`
	Tags        []string    `json:"tags" yaml:"tags"`
}

// Degenerate reports whether both ends reference the same node.
func (m Member) Degenerate() bool { return m.StartNode == m.EndNode }

// DefaultMaterial is structural steel (A36).
func DefaultMaterial() Material {
	return Material{
		Name:          "Steel A36",
		E:             200e9,
		G:             77.2e9,
		Density:       7850,
		YieldStrength: 250e6,
	}
}

// DefaultSection approximates a W8x31.
func DefaultSection() Section {
	return Section{
		Name: "W8x31",
		A:    5.87e-3,
		Ix:   1.10e-4 / 1e2,
		Iy:   37.1e-6 / 1e2,
		Sx:   27.5e-6 / 1e1,
		Sy:   12.4e-6 / 1e1,
		J:    0.536e-6,
	}
}

// NewNode returns a free, rigidly connected node.
func NewNode(id string, pos vec.Vec3) Node {
	return Node{
		ID:         id,
		Position:   pos,
		Support:    Support{Type: SupportFree},
		Connection: ConnectionRigid,
		Tags:       []string{},
	}
}

// NewMember returns a member with the default material and section and no
// end releases.
func NewMember(id, start, end string) Member {
	return Member{
		ID:        id,
		StartNode: start,
		EndNode:   end,
		Material:  DefaultMaterial(),
		Section:   DefaultSection(),
		Tags:      []string{},
	}
}
