package model

import "github.com/chazu/structview/pkg/vec"

// Structure is a snapshot of the 3D model: the nodes and members an
// external store holds. The engine never mutates a Structure it is handed;
// Append is for callers assembling their own snapshot.
type Structure struct {
	Nodes   []Node   `json:"nodes" yaml:"nodes"`
	Members []Member `json:"members" yaml:"members"`
}

// NewStructure returns an empty structure with non-nil slices.
func NewStructure() *Structure {
	return &Structure{Nodes: []Node{}, Members: []Member{}}
}

// NodeByID returns the node with the given id.
func (s *Structure) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MemberByID returns the member with the given id.
func (s *Structure) MemberByID(id string) (Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Positions indexes node positions by id.
func (s *Structure) Positions() map[string]vec.Vec3 {
	out := make(map[string]vec.Vec3, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n.Position
	}
	return out
}

// Append adds nodes and members to the structure.
func (s *Structure) Append(nodes []Node, members []Member) {
	s.Nodes = append(s.Nodes, nodes...)
	s.Members = append(s.Members, members...)
}

// Clone returns a copy whose slices do not alias s.
func (s *Structure) Clone() *Structure {
	c := &Structure{
		Nodes:   make([]Node, len(s.Nodes)),
		Members: make([]Member, len(s.Members)),
	}
	copy(c.Nodes, s.Nodes)
	copy(c.Members, s.Members)
	return c
}

// TrussNodes returns the nodes stamped with the given truss id.
func (s *Structure) TrussNodes(trussID string) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.TrussID == trussID {
			out = append(out, n)
		}
	}
	return out
}
