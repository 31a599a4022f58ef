package snap

import (
	"testing"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got vec.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, eps), "want %s, got %s", want, got)
}

func TestResolve3D(t *testing.T) {
	nodes := []model.Node{
		model.NewNode("a", vec.Zero),
		model.NewNode("b", vec.New(0, 0, 1)),
	}
	members := []model.Member{model.NewMember("ab", "a", "b")}
	opts := Options{SnapRadius: 0.6, GridSize: 1}

	r := Resolve3D(vec.New(0, 0, 0.45), nodes, members, opts)
	assert.Equal(t, KindNode, r.Kind, "node within radius beats closer midpoint")
	assert.Equal(t, "a", r.SourceID)

	r = Resolve3D(vec.New(0.1, 0, 0.5), nodes, members, Options{SnapRadius: 0.3, GridSize: 1})
	assert.Equal(t, KindMidpoint, r.Kind)
	assert.Equal(t, "ab", r.SourceID)
	assertVec(t, vec.New(0, 0, 0.5), r.Point)

	r = Resolve3D(vec.New(1.4, -0.6, 2.5), nil, nil, opts)
	assert.Equal(t, KindGrid, r.Kind)
	assertVec(t, vec.New(1, -1, 3), r.Point)

	r = Resolve3D(vec.New(1.4, -0.6, 2.5), nil, nil, Options{SnapRadius: 1})
	assert.Equal(t, KindNone, r.Kind)
	assert.Equal(t, vec.New(1.4, -0.6, 2.5), r.Point)
}

func TestResolveOnPlane(t *testing.T) {
	wp := plane.FromPoints(nil, vec.New(0, 0, 2))
	nodes := []model.Node{
		model.NewNode("a", vec.New(1, 1, 2)),
		model.NewNode("off", vec.New(1, 1, 2.5)),
		model.NewNode("c", vec.New(3, 1, 2)),
	}
	members := []model.Member{
		model.NewMember("ac", "a", "c"),
		model.NewMember("a-off", "a", "off"),
	}
	opts := Options{SnapRadius: 0.5, GridSize: 1}

	r := ResolveOnPlane(vec.New(1.05, 1, 2), nodes, members, wp, opts)
	assert.Equal(t, KindNode, r.Kind)
	assert.Equal(t, "a", r.SourceID)
	assertVec(t, vec.New(1, 1, 2), r.Point)

	r = ResolveOnPlane(vec.New(2.1, 1, 2), nodes, members, wp, opts)
	assert.Equal(t, KindMidpoint, r.Kind)
	assert.Equal(t, "ac", r.SourceID)
	assertVec(t, vec.New(2, 1, 2), r.Point)

	// The off-plane node is not a candidate and its member has no midpoint.
	r = ResolveOnPlane(vec.New(1, 1, 2), nodes[1:2], members[1:], wp, opts)
	assert.Equal(t, KindGrid, r.Kind)
	assertVec(t, vec.New(1, 1, 2), r.Point)

	r = ResolveOnPlane(vec.New(0.4, 0.6, 2), nil, nil, wp, opts)
	assert.Equal(t, KindGrid, r.Kind)
	assertVec(t, vec.New(0, 1, 2), r.Point)
}

func TestResolveOnPlaneTiltedGrid(t *testing.T) {
	wp, ok := plane.AlignToAxis(plane.FromPoints(nil, vec.New(5, 0, 0)), vec.X)
	require.True(t, ok)

	r := ResolveOnPlane(vec.New(5, 0.3, 1.8), nil, nil, wp, Options{GridSize: 1})
	assert.Equal(t, KindGrid, r.Kind)
	assertVec(t, vec.New(5, 0, 2), r.Point)
	assert.True(t, plane.IsOnPlane(r.Point, wp, eps))
}

func TestNearestOnPlaneNode(t *testing.T) {
	wp := plane.FromPoints(nil)
	nodes := []model.Node{
		model.NewNode("a", vec.Zero),
		model.NewNode("b", vec.New(0.2, 0, 0.005)),
		model.NewNode("above", vec.New(0.15, 0, 0.5)),
		model.NewNode("edge", vec.New(5, 5, 0.01)),
	}

	id, ok := NearestOnPlaneNode(vec.New(0.15, 0, 0), nodes, wp, 1, plane.DefaultOnPlaneThreshold)
	require.True(t, ok)
	assert.Equal(t, "b", id)

	// Plane tolerance is inclusive.
	id, ok = NearestOnPlaneNode(vec.New(5, 5, 0), nodes, wp, 1, plane.DefaultOnPlaneThreshold)
	require.True(t, ok)
	assert.Equal(t, "edge", id)

	_, ok = NearestOnPlaneNode(vec.New(2, 2, 0), nodes, wp, 0.5, plane.DefaultOnPlaneThreshold)
	assert.False(t, ok)
}

func TestVisibleNearPlane(t *testing.T) {
	wp := plane.FromPoints(nil)
	nodes := []model.Node{
		model.NewNode("near", vec.New(3, 3, 0.4)),
		model.NewNode("far", vec.New(0, 0, 0.6)),
		model.NewNode("below", vec.New(1, 0, -0.5)),
	}
	assert.Equal(t, []string{"near", "below"}, VisibleNearPlane(nodes, wp, plane.DefaultNearPlaneTolerance))
	assert.Empty(t, VisibleNearPlane(nil, wp, 1))
}

func TestGroup(t *testing.T) {
	truss := []model.Node{
		{ID: "t1", Position: vec.Zero, TrussID: "T"},
		{ID: "t2", Position: vec.New(4, 0, 0), TrussID: "T"},
	}
	all := append([]model.Node{
		{ID: "m1", Position: vec.New(4.3, 0, 0)},
		{ID: "m2", Position: vec.New(0, 0.2, 0), TrussID: "other"},
	}, truss...)

	r, ok := Group(truss, all, "T", 0.5)
	require.True(t, ok)
	assert.Equal(t, "t1", r.GroupNodeID)
	assert.Equal(t, "m2", r.TargetNodeID)
	assert.InDelta(t, 0.2, r.Distance, eps)
	assertVec(t, vec.New(0, 0.2, 0), r.Delta)
	assertVec(t, r.TargetPosition, truss[0].Position.Add(r.Delta))

	_, ok = Group(truss, all, "T", 0.1)
	assert.False(t, ok)

	// Members of the same truss are never targets.
	_, ok = Group(truss, truss, "T", 10)
	assert.False(t, ok)
}
