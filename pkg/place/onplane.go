package place

import (
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/paulmach/orb"
)

// OnPlane lays shape flat on a working plane: local (x, y) maps to plane
// coordinates (x+offU, y+offV) at unit scale. Entities get fresh ids.
func OnPlane(shape model.Shape2D, wp plane.WorkingPlane, offU, offV float64, ids model.IDGenerator) Result {
	if ids == nil {
		ids = model.UUIDGenerator{}
	}
	out := emptyResult()
	idMap := make(map[string]string, len(shape.Nodes))
	for _, n := range shape.Nodes {
		id := ids.NewID()
		idMap[n.ID] = id
		out.Nodes = append(out.Nodes, model.NewNode(id, plane.LocalToWorld(n.X+offU, n.Y+offV, wp)))
	}
	out.Members = remapMembers(shape.Members, idMap, ids)
	return out
}

// SaveToShape2D turns nodes and members drawn on a plane into a reusable
// shape. Nodes are projected to plane coordinates and shifted so the
// bounding box's minimum corner sits at the origin; node ids are kept.
// Only members with both ends among nodes are kept, none flagged as the
// snap edge. The placement plane is the plane's axis orientation, or XZ
// for a tilted plane.
func SaveToShape2D(nodes []model.Node, members []model.Member, wp plane.WorkingPlane, name string, ids model.IDGenerator) model.Shape2D {
	if ids == nil {
		ids = model.UUIDGenerator{}
	}
	shape := model.Shape2D{
		ID:             ids.NewID(),
		Name:           name,
		Nodes:          []model.Shape2DNode{},
		Members:        []model.Shape2DMember{},
		PlacementPlane: model.PlaneXZ,
	}
	if ap, ok := plane.Classify(wp.Normal).AxisPlane(); ok {
		shape.PlacementPlane = ap
	}
	if len(nodes) == 0 {
		return shape
	}

	projected := make(orb.MultiPoint, len(nodes))
	in := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		u, v := plane.WorldToLocal(n.Position, wp)
		projected[i] = orb.Point{u, v}
		in[n.ID] = true
	}
	corner := projected.Bound().Min
	for i, n := range nodes {
		shape.Nodes = append(shape.Nodes, model.Shape2DNode{
			ID: n.ID,
			X:  projected[i][0] - corner[0],
			Y:  projected[i][1] - corner[1],
		})
	}
	for _, m := range members {
		if !in[m.StartNode] || !in[m.EndNode] {
			continue
		}
		shape.Members = append(shape.Members, model.Shape2DMember{
			ID:        m.ID,
			StartNode: m.StartNode,
			EndNode:   m.EndNode,
		})
	}
	return shape
}
