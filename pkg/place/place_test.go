package place

import (
	"math"
	"testing"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertVec(t *testing.T, want, got vec.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, eps), "want %s, got %s", want, got)
}

// triangle has a 4-unit snap edge along local X and an apex at (2, 3).
func triangle() model.Shape2D {
	return model.Shape2D{
		ID:   "tri",
		Name: "triangle",
		Nodes: []model.Shape2DNode{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 4, Y: 0},
			{ID: "c", X: 2, Y: 3},
		},
		Members: []model.Shape2DMember{
			{ID: "ab", StartNode: "a", EndNode: "b", IsSnapEdge: true},
			{ID: "bc", StartNode: "b", EndNode: "c"},
			{ID: "ca", StartNode: "c", EndNode: "a"},
		},
	}
}

func edge(x0, y0, z0, x1, y1, z1 float64) model.TargetEdge {
	return model.TargetEdge{Start: vec.New(x0, y0, z0), End: vec.New(x1, y1, z1)}
}

func TestFindSnapEdge(t *testing.T) {
	shape := triangle()
	e, ok := FindSnapEdge(shape)
	require.True(t, ok)
	assert.Equal(t, Edge2D{Start: orb.Point{0, 0}, End: orb.Point{4, 0}}, e)
	assert.InDelta(t, 4.0, e.Length(), eps)

	// The flagged member wins over the first member.
	shape.Members[0].IsSnapEdge = false
	shape.Members[1].IsSnapEdge = true
	e, ok = FindSnapEdge(shape)
	require.True(t, ok)
	assert.Equal(t, orb.Point{4, 0}, e.Start)
	assert.Equal(t, orb.Point{2, 3}, e.End)

	// No flag falls back to the first member.
	shape.Members[1].IsSnapEdge = false
	e, ok = FindSnapEdge(shape)
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 0}, e.Start)

	_, ok = FindSnapEdge(model.Shape2D{Nodes: shape.Nodes})
	assert.False(t, ok, "no members")

	shape.Members[0].EndNode = "a"
	_, ok = FindSnapEdge(shape)
	assert.False(t, ok, "zero-length edge")
}

func TestShapeScalesToTarget(t *testing.T) {
	ids := model.NewSequence("id")
	r := Shape(triangle(), edge(0, 0, 0, 8, 0, 0), 0, ids)

	require.Len(t, r.Nodes, 3)
	assertVec(t, vec.New(0, 0, 0), r.Nodes[0].Position)
	assertVec(t, vec.New(8, 0, 0), r.Nodes[1].Position)
	// scale 2; local Y maps to U x V = -Y for an X-aligned edge.
	assertVec(t, vec.New(4, -6, 0), r.Nodes[2].Position)

	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, []string{r.Nodes[0].ID, r.Nodes[1].ID, r.Nodes[2].ID})
	require.Len(t, r.Members, 3)
	assert.Equal(t, "id-4", r.Members[0].ID)
	assert.Equal(t, "id-1", r.Members[0].StartNode)
	assert.Equal(t, "id-2", r.Members[0].EndNode)
	assert.Equal(t, "id-1", r.Members[2].EndNode)
	assert.Equal(t, model.DefaultMaterial(), r.Members[0].Material)
}

func TestShapeOffsetSlidesAlongEdge(t *testing.T) {
	target := edge(0, 0, 0, 10, 0, 0)
	base := Shape(triangle(), target, 0, nil)
	half := Shape(triangle(), target, 0.5, nil)

	require.Len(t, half.Nodes, len(base.Nodes))
	for i := range base.Nodes {
		assertVec(t, vec.New(5, 0, 0), half.Nodes[i].Position.Sub(base.Nodes[i].Position))
	}
	assert.NotEqual(t, base.Nodes[0].ID, half.Nodes[0].ID)
}

func TestShapeSnapStartLandsOnTargetStart(t *testing.T) {
	shape := model.Shape2D{
		Nodes: []model.Shape2DNode{
			{ID: "p", X: 1, Y: 1},
			{ID: "q", X: 3, Y: 1},
			{ID: "r", X: 2, Y: 2},
		},
		Members: []model.Shape2DMember{
			{ID: "pq", StartNode: "p", EndNode: "q", IsSnapEdge: true},
			{ID: "qr", StartNode: "q", EndNode: "r"},
		},
	}
	r := Shape(shape, edge(10, 0, 0, 12, 0, 0), 0, nil)
	require.Len(t, r.Nodes, 3)
	assertVec(t, vec.New(10, 0, 0), r.Nodes[0].Position)
	assertVec(t, vec.New(12, 0, 0), r.Nodes[1].Position)
	assertVec(t, vec.New(11, -1, 0), r.Nodes[2].Position)
}

func TestFrameFor(t *testing.T) {
	f := FrameFor(vec.New(3, 0, 0))
	assertVec(t, vec.X, f.U)
	assertVec(t, vec.Z, f.V)
	assertVec(t, vec.Y.Negate(), f.W)

	// Near-vertical targets switch the reference to world Z.
	f = FrameFor(vec.New(0, 5, 0))
	assertVec(t, vec.Y, f.U)
	assertVec(t, vec.X, f.V)
	assertVec(t, vec.Z.Negate(), f.W)

	f = FrameFor(vec.New(0.1, 1, 0.2))
	for _, v := range []vec.Vec3{f.U, f.V, f.W} {
		assert.InDelta(t, 1.0, v.Length(), eps)
	}
	assert.InDelta(t, 0.0, f.U.Dot(f.V), eps)
	assert.InDelta(t, 0.0, f.U.Dot(f.W), eps)
	assert.InDelta(t, 0.0, f.V.Dot(f.W), eps)
}

func TestShapeDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		shape  model.Shape2D
		target model.TargetEdge
	}{
		{"empty shape", model.Shape2D{}, edge(0, 0, 0, 1, 0, 0)},
		{"zero target", triangle(), edge(1, 1, 1, 1, 1, 1)},
		{"zero snap edge", model.Shape2D{
			Nodes:   []model.Shape2DNode{{ID: "a"}, {ID: "b"}},
			Members: []model.Shape2DMember{{ID: "m", StartNode: "a", EndNode: "b"}},
		}, edge(0, 0, 0, 1, 0, 0)},
		{"no members", model.Shape2D{Nodes: []model.Shape2DNode{{ID: "a"}}}, edge(0, 0, 0, 1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Shape(tt.shape, tt.target, 0, nil)
			assert.True(t, r.Empty())
			assert.NotNil(t, r.Nodes)
			assert.NotNil(t, r.Members)
			assert.Empty(t, r.Members)
		})
	}
}

func TestShapeSkipsUnresolvedMembers(t *testing.T) {
	shape := triangle()
	shape.Members = append(shape.Members, model.Shape2DMember{ID: "x", StartNode: "a", EndNode: "ghost"})
	r := Shape(shape, edge(0, 0, 0, 4, 0, 0), 0, nil)
	assert.Len(t, r.Members, 3)
}

func TestShapeOutputIsFinite(t *testing.T) {
	targets := []model.TargetEdge{
		edge(0, 0, 0, 0, 1e-9, 0),
		edge(0, 0, 0, 0, 0, 7),
		edge(1, 2, 3, -4, 5, -6),
	}
	for _, target := range targets {
		for _, n := range Shape(triangle(), target, 0.3, nil).Nodes {
			assert.True(t, n.Position.IsFinite(), "%v", target)
			assert.False(t, math.IsNaN(n.Position.X))
		}
	}
}

func TestOnPlane(t *testing.T) {
	wp := plane.FromPoints(nil, vec.New(0, 0, 5))
	shape := model.Shape2D{
		Nodes:   []model.Shape2DNode{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 1, Y: 0}},
		Members: []model.Shape2DMember{{ID: "ab", StartNode: "a", EndNode: "b"}},
	}
	r := OnPlane(shape, wp, 2, 3, model.NewSequence("p"))
	require.Len(t, r.Nodes, 2)
	assertVec(t, vec.New(2, 3, 5), r.Nodes[0].Position)
	assertVec(t, vec.New(3, 3, 5), r.Nodes[1].Position)
	require.Len(t, r.Members, 1)
	assert.Equal(t, "p-3", r.Members[0].ID)
	assert.Equal(t, "p-1", r.Members[0].StartNode)
	assert.Equal(t, "p-2", r.Members[0].EndNode)
}

func TestSaveToShape2D(t *testing.T) {
	wp := plane.FromPoints(nil)
	nodes := []model.Node{
		model.NewNode("n1", vec.New(2, 3, 0)),
		model.NewNode("n2", vec.New(5, 3, 0)),
		model.NewNode("n3", vec.New(2, 7, 0)),
	}
	members := []model.Member{
		model.NewMember("m12", "n1", "n2"),
		model.NewMember("m1g", "n1", "ghost"),
		model.NewMember("m23", "n2", "n3"),
	}

	shape := SaveToShape2D(nodes, members, wp, "bracket", model.NewSequence("shape"))
	assert.Equal(t, "shape-1", shape.ID)
	assert.Equal(t, "bracket", shape.Name)
	assert.Equal(t, model.PlaneXY, shape.PlacementPlane)
	assert.Equal(t, []model.Shape2DNode{
		{ID: "n1", X: 0, Y: 0},
		{ID: "n2", X: 3, Y: 0},
		{ID: "n3", X: 0, Y: 4},
	}, shape.Nodes)
	require.Len(t, shape.Members, 2)
	assert.Equal(t, "m12", shape.Members[0].ID)
	assert.Equal(t, "m23", shape.Members[1].ID)
	assert.False(t, shape.Members[0].IsSnapEdge)

	// Placing it back at the saved corner restores the positions.
	back := OnPlane(shape, wp, 2, 3, nil)
	for i := range nodes {
		assertVec(t, nodes[i].Position, back.Nodes[i].Position)
	}
}

func TestSaveToShape2DEmptyAndTilted(t *testing.T) {
	empty := SaveToShape2D(nil, nil, plane.FromPoints(nil), "none", nil)
	assert.NotEmpty(t, empty.ID)
	assert.NotNil(t, empty.Nodes)
	assert.Empty(t, empty.Nodes)

	tilted := plane.Rotate(plane.FromPoints(nil), vec.X, 30)
	shape := SaveToShape2D(nil, nil, tilted, "tilted", nil)
	assert.Equal(t, model.PlaneXZ, shape.PlacementPlane)
}
