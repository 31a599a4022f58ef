// Package place maps 2D shape templates into the 3D model by aligning a
// shape's snap edge to a target edge, optionally replicating the shape at
// equal spacing and merging coincident nodes as it goes.
//
// Degenerate input never errors. An empty shape, a zero-length snap edge or
// a zero-length target edge all yield an empty Result.
package place

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// nearVerticalDot is the |U·Y| above which world Z replaces world Y as the
// reference for the placement frame.
const nearVerticalDot = 0.9

// Result holds freshly created model entities.
type Result struct {
	Nodes   []model.Node   `json:"nodes" yaml:"nodes"`
	Members []model.Member `json:"members" yaml:"members"`
}

func emptyResult() Result {
	return Result{Nodes: []model.Node{}, Members: []model.Member{}}
}

// Empty reports whether nothing was placed.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// Edge2D is a segment in shape-local coordinates.
type Edge2D struct {
	Start orb.Point `json:"start"`
	End   orb.Point `json:"end"`
}

// Length returns the edge length.
func (e Edge2D) Length() float64 { return planar.Distance(e.Start, e.End) }

// FindSnapEdge returns the shape's flagged snap edge, or its first member
// when none is flagged. It reports false when the shape has no members,
// the edge references a missing node, or the edge has zero length.
func FindSnapEdge(shape model.Shape2D) (Edge2D, bool) {
	if len(shape.Members) == 0 {
		return Edge2D{}, false
	}
	m := shape.Members[0]
	for _, c := range shape.Members {
		if c.IsSnapEdge {
			m = c
			break
		}
	}
	a, ok := shape.NodeByID(m.StartNode)
	if !ok {
		return Edge2D{}, false
	}
	b, ok := shape.NodeByID(m.EndNode)
	if !ok {
		return Edge2D{}, false
	}
	e := Edge2D{Start: orb.Point{a.X, a.Y}, End: orb.Point{b.X, b.Y}}
	if e.Length() == 0 {
		return Edge2D{}, false
	}
	return e, true
}

// Frame is the orthonormal basis a shape is placed with. Local X maps to
// U and local Y maps to W; V is the placement plane's normal.
type Frame struct {
	U, V, W vec.Vec3
}

// FrameFor derives the placement frame for a target direction. The
// reference axis is world Y unless dir is within acos(0.9) of it, in which
// case world Z is used.
func FrameFor(dir vec.Vec3) Frame {
	u := dir.Normalize()
	ref := vec.Y
	if math.Abs(u.Dot(vec.Y)) > nearVerticalDot {
		ref = vec.Z
	}
	v := u.Cross(ref).Normalize()
	return Frame{U: u, V: v, W: u.Cross(v)}
}

// Shape places shape so its snap edge spans the target edge, scaled by
// |edge| / |snap edge|. offset in [0, 1] slides the whole shape along the
// edge: the snap edge start lands at edge.Start + offset*(edge.End -
// edge.Start). Nodes and members receive ids from ids, or random UUIDs when
// ids is nil. Members referencing unknown shape nodes are skipped.
func Shape(shape model.Shape2D, edge model.TargetEdge, offset float64, ids model.IDGenerator) Result {
	snap, ok := FindSnapEdge(shape)
	if !ok || len(shape.Nodes) == 0 {
		return emptyResult()
	}
	length := edge.Length()
	if length == 0 {
		return emptyResult()
	}
	if ids == nil {
		ids = model.UUIDGenerator{}
	}

	d := edge.Vector()
	f := FrameFor(d)
	scale := length / snap.Length()
	origin := edge.Start.
		Add(d.Scale(offset)).
		Sub(f.U.Scale(snap.Start[0] * scale)).
		Sub(f.W.Scale(snap.Start[1] * scale))

	out := emptyResult()
	idMap := make(map[string]string, len(shape.Nodes))
	for _, n := range shape.Nodes {
		pos := origin.Add(f.U.Scale(n.X * scale)).Add(f.W.Scale(n.Y * scale))
		id := ids.NewID()
		idMap[n.ID] = id
		out.Nodes = append(out.Nodes, model.NewNode(id, pos))
	}
	out.Members = remapMembers(shape.Members, idMap, ids)
	return out
}

func remapMembers(members []model.Shape2DMember, idMap map[string]string, ids model.IDGenerator) []model.Member {
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		start, ok := idMap[m.StartNode]
		if !ok {
			continue
		}
		end, ok := idMap[m.EndNode]
		if !ok || start == end {
			continue
		}
		out = append(out, model.NewMember(ids.NewID(), start, end))
	}
	return out
}
