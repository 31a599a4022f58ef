package engine

import (
	"fmt"

	"github.com/chazu/structview/pkg/merge"
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/place"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
)

// builder accumulates the structure produced by one evaluation. Ids come
// from hash generators with fixed namespaces, so evaluating the same source
// twice yields identical ids.
type builder struct {
	s         *model.Structure
	ids       model.IDGenerator
	trussIDs  model.IDGenerator
	planes    model.IDGenerator
	tolerance float64
	snap      plane.AngleSnap
}

func newBuilder(tolerance float64, snap plane.AngleSnap) *builder {
	return &builder{
		s:         model.NewStructure(),
		ids:       model.NewHashGenerator("element"),
		trussIDs:  model.NewHashGenerator("truss"),
		planes:    plane.NewCounter(),
		tolerance: tolerance,
		snap:      snap,
	}
}

// addNode adds a free node. An empty id draws one from the generator.
func (b *builder) addNode(id string, pos vec.Vec3) (string, error) {
	if id == "" {
		id = b.ids.NewID()
	}
	if _, ok := b.s.NodeByID(id); ok {
		return "", fmt.Errorf("duplicate node id %q", id)
	}
	if !pos.IsFinite() {
		return "", fmt.Errorf("node %q: position %s is not finite", id, pos)
	}
	b.s.Append([]model.Node{model.NewNode(id, pos)}, nil)
	return id, nil
}

// addMember links two existing nodes.
func (b *builder) addMember(start, end string) (string, error) {
	if start == end {
		return "", fmt.Errorf("member from %q to itself", start)
	}
	for _, id := range []string{start, end} {
		if _, ok := b.s.NodeByID(id); !ok {
			return "", fmt.Errorf("no node %q", id)
		}
	}
	id := b.ids.NewID()
	b.s.Append(nil, []model.Member{model.NewMember(id, start, end)})
	return id, nil
}

// commit places shape along edge and merges it into the structure.
func (b *builder) commit(shape model.Shape2D, edge model.TargetEdge, offset float64, count int) []string {
	c := place.Commit(place.CommitRequest{
		Shape:     shape,
		Edge:      edge,
		Offset:    offset,
		Count:     count,
		Existing:  b.s.Nodes,
		Tolerance: b.tolerance,
		IDs:       b.ids,
		TrussIDs:  b.trussIDs,
	})
	b.s.Append(c.Nodes, c.Members)
	return c.TrussIDs
}

// commitOnPlane places shape flat on wp and merges it into the structure.
// It reports false when the shape has no nodes.
func (b *builder) commitOnPlane(shape model.Shape2D, wp plane.WorkingPlane, u, v float64) (string, bool) {
	r := place.OnPlane(shape, wp, u, v, b.ids)
	if r.Empty() {
		return "", false
	}
	kept, remap := merge.CoincidentNodes(b.s.Nodes, r.Nodes, b.tolerance)
	members := merge.ApplyRemap(r.Members, remap)

	tid := b.trussIDs.NewID()
	for i := range kept {
		kept[i].TrussID = tid
	}
	for i := range members {
		members[i].TrussID = tid
	}
	b.s.Append(kept, members)
	return tid, true
}
