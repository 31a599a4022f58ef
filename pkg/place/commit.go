package place

import (
	"github.com/chazu/structview/pkg/merge"
	"github.com/chazu/structview/pkg/model"
)

// CommitRequest describes a placement about to be added to the model.
type CommitRequest struct {
	Shape  model.Shape2D
	Edge   model.TargetEdge
	Offset float64
	// Count <= 1 places a single copy at Offset; larger values replicate
	// at equal spacing and ignore Offset.
	Count    int
	Existing []model.Node
	// Tolerance is the merge distance; zero means merge.DefaultTolerance.
	Tolerance float64
	// IDs supplies node and member ids, TrussIDs one id per placed copy.
	// Either may be nil for random UUIDs.
	IDs      model.IDGenerator
	TrussIDs model.IDGenerator
}

// Committed is what a caller appends to its model store. Every node and
// member carries the truss id of the copy it belongs to.
type Committed struct {
	Nodes    []model.Node   `json:"nodes"`
	Members  []model.Member `json:"members"`
	TrussIDs []string       `json:"trussIds"`
	Remap    merge.Remap    `json:"remap"`
}

// Merged returns how many placed nodes were folded into existing ones.
func (c Committed) Merged() int { return len(c.Remap) }

// Commit resolves a placement against the existing model. A single copy
// is merged once against req.Existing. Replicated copies were already
// merged incrementally by EqualSpacing and are not merged again.
func Commit(req CommitRequest) Committed {
	tol := req.Tolerance
	if tol <= 0 {
		tol = merge.DefaultTolerance
	}
	truss := req.TrussIDs
	if truss == nil {
		truss = model.UUIDGenerator{}
	}

	var (
		copies []Result
		remap  merge.Remap
	)
	if req.Count <= 1 {
		placed := Shape(req.Shape, req.Edge, req.Offset, req.IDs)
		kept, r := merge.CoincidentNodes(req.Existing, placed.Nodes, tol)
		copies = []Result{{Nodes: kept, Members: merge.ApplyRemap(placed.Members, r)}}
		remap = r
	} else {
		spaced := EqualSpacing(req.Shape, req.Edge, req.Count, req.Existing, tol, req.IDs)
		copies = spaced.Copies
		remap = spaced.Remap
	}

	out := Committed{
		Nodes:    []model.Node{},
		Members:  []model.Member{},
		TrussIDs: []string{},
		Remap:    remap,
	}
	for _, c := range copies {
		if len(c.Nodes) == 0 && len(c.Members) == 0 {
			continue
		}
		id := truss.NewID()
		out.TrussIDs = append(out.TrussIDs, id)
		for _, n := range c.Nodes {
			n.TrussID = id
			out.Nodes = append(out.Nodes, n)
		}
		for _, m := range c.Members {
			m.TrussID = id
			out.Members = append(out.Members, m)
		}
	}
	return out
}
