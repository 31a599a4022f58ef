package place

import (
	"github.com/chazu/structview/pkg/merge"
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
)

// EqualSpacingPositions returns count points along start..end: none for
// count <= 0, the midpoint for 1, otherwise both endpoints and evenly
// spaced points between them.
func EqualSpacingPositions(start, end vec.Vec3, count int) []vec.Vec3 {
	switch {
	case count <= 0:
		return []vec.Vec3{}
	case count == 1:
		return []vec.Vec3{start.Midpoint(end)}
	}
	out := make([]vec.Vec3, count)
	for i := range out {
		t := float64(i) / float64(count-1)
		out[i] = start.Lerp(end, t)
	}
	return out
}

// Spaced is the outcome of EqualSpacing. Each copy holds only the nodes
// that survived merging; its members already reference the surviving ids.
type Spaced struct {
	Copies []Result    `json:"copies"`
	Remap  merge.Remap `json:"remap"`
}

// Flatten concatenates all copies.
func (s Spaced) Flatten() Result {
	out := emptyResult()
	for _, c := range s.Copies {
		out.Nodes = append(out.Nodes, c.Nodes...)
		out.Members = append(out.Members, c.Members...)
	}
	return out
}

// EqualSpacing places count copies of shape, one at each
// EqualSpacingPositions point, each aligned to a sub-edge with the target
// edge's length and direction starting at that point.
//
// Merging is sequential: copy i merges against existing plus the surviving
// nodes of copies 0..i-1, never against later copies. Callers must not
// merge the result again.
func EqualSpacing(shape model.Shape2D, edge model.TargetEdge, count int, existing []model.Node, tol float64, ids model.IDGenerator) Spaced {
	out := Spaced{Copies: []Result{}, Remap: merge.Remap{}}
	if edge.Length() == 0 {
		return out
	}
	d := edge.Vector()

	running := make([]model.Node, len(existing))
	copy(running, existing)
	for _, pos := range EqualSpacingPositions(edge.Start, edge.End, count) {
		placed := Shape(shape, model.TargetEdge{Start: pos, End: pos.Add(d)}, 0, ids)
		kept, remap := merge.CoincidentNodes(running, placed.Nodes, tol)
		out.Copies = append(out.Copies, Result{
			Nodes:   kept,
			Members: merge.ApplyRemap(placed.Members, remap),
		})
		out.Remap.Merge(remap)
		running = append(running, kept...)
	}
	return out
}
