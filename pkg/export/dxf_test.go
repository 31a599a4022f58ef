package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *model.Structure {
	return &model.Structure{
		Nodes: []model.Node{
			model.NewNode("a", vec.Zero),
			model.NewNode("b", vec.New(4, 0, 0)),
			model.NewNode("c", vec.New(2, 0, 3)),
		},
		Members: []model.Member{
			model.NewMember("ab", "a", "b"),
			model.NewMember("bc", "b", "c"),
			model.NewMember("ca", "c", "a"),
		},
	}
}

// entityCount counts group-code-0 records of the given type.
func entityCount(doc, kind string) int {
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
	n := 0
	for i := 0; i+1 < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "0" && strings.TrimSpace(lines[i+1]) == kind {
			n++
		}
	}
	return n
}

func TestWriteDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truss.dxf")
	require.NoError(t, WriteDXF(path, triangle()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)

	assert.Equal(t, 3, entityCount(doc, "LINE"))
	assert.Equal(t, 3, entityCount(doc, "POINT"))
	assert.Contains(t, doc, LayerMembers)
	assert.Contains(t, doc, LayerNodes)
}

func TestWriteDXFEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")
	assert.True(t, errors.Is(WriteDXF(path, nil), ErrEmpty))
	assert.True(t, errors.Is(WriteDXF(path, model.NewStructure()), ErrEmpty))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDXFMissingNode(t *testing.T) {
	s := triangle()
	s.Members = append(s.Members, model.NewMember("bad", "a", "ghost"))
	err := WriteDXF(filepath.Join(t.TempDir(), "bad.dxf"), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
