package merge

import (
	"testing"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoincidentNodesBoundaryIsInclusive(t *testing.T) {
	existing := []model.Node{model.NewNode("e", vec.Zero)}

	// 0.5 is exact in binary, so the distance equals the tolerance exactly.
	at := []model.Node{model.NewNode("n", vec.New(0.5, 0, 0))}
	kept, remap := CoincidentNodes(existing, at, 0.5)
	assert.Empty(t, kept)
	assert.Equal(t, Remap{"n": "e"}, remap)

	past := []model.Node{model.NewNode("n", vec.New(0.5+1e-9, 0, 0))}
	kept, remap = CoincidentNodes(existing, past, 0.5)
	assert.Len(t, kept, 1)
	assert.Empty(t, remap)
}

func TestCoincidentNodesDefaultTolerance(t *testing.T) {
	existing := []model.Node{model.NewNode("e", vec.New(1, 1, 1))}
	incoming := []model.Node{
		model.NewNode("near", vec.New(1.0005, 1, 1)),
		model.NewNode("far", vec.New(1.01, 1, 1)),
	}
	kept, remap := CoincidentNodes(existing, incoming, DefaultTolerance)
	require.Len(t, kept, 1)
	assert.Equal(t, "far", kept[0].ID)
	assert.Equal(t, "e", remap.Resolve("near"))
}

func TestCoincidentNodesFirstExistingWins(t *testing.T) {
	existing := []model.Node{
		model.NewNode("first", vec.New(0.0004, 0, 0)),
		model.NewNode("second", vec.Zero),
	}
	_, remap := CoincidentNodes(existing, []model.Node{model.NewNode("n", vec.Zero)}, DefaultTolerance)
	assert.Equal(t, "first", remap["n"])
}

func TestCoincidentNodesIncomingNotComparedToEachOther(t *testing.T) {
	incoming := []model.Node{
		model.NewNode("a", vec.Zero),
		model.NewNode("b", vec.Zero),
	}
	kept, remap := CoincidentNodes(nil, incoming, DefaultTolerance)
	assert.Len(t, kept, 2)
	assert.Empty(t, remap)
}

func TestApplyRemap(t *testing.T) {
	members := []model.Member{
		model.NewMember("m1", "a", "b"),
		model.NewMember("m2", "b", "c"),
		model.NewMember("m3", "c", "x"),
	}
	out := ApplyRemap(members, Remap{"b": "x", "c": "x"})

	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].ID)
	assert.Equal(t, "a", out[0].StartNode)
	assert.Equal(t, "x", out[0].EndNode)

	// Input untouched.
	assert.Equal(t, "b", members[0].EndNode)
}

func TestRemapMerge(t *testing.T) {
	r := Remap{"a": "b"}
	r.Merge(Remap{"c": "d"})
	assert.Equal(t, Remap{"a": "b", "c": "d"}, r)
	assert.Equal(t, "zzz", r.Resolve("zzz"))
}
