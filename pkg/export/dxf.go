// Package export writes structures to exchange formats.
package export

import (
	"errors"
	"fmt"

	"github.com/chazu/structview/pkg/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("export: structure has no nodes")

// Layer names used in DXF output.
const (
	LayerMembers = "MEMBERS"
	LayerNodes   = "NODES"
)

// WriteDXF saves s to path as 3D DXF: one LINE per member on the MEMBERS
// layer and one POINT per node on the NODES layer. A member referencing a
// missing node is an error.
func WriteDXF(path string, s *model.Structure) error {
	if s == nil || len(s.Nodes) == 0 {
		return ErrEmpty
	}
	pos := s.Positions()

	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	if _, err := d.AddLayer(LayerMembers, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: layer %s: %w", LayerMembers, err)
	}
	for _, m := range s.Members {
		a, ok := pos[m.StartNode]
		if !ok {
			return fmt.Errorf("export: member %s: missing start node %s", m.ID, m.StartNode)
		}
		b, ok := pos[m.EndNode]
		if !ok {
			return fmt.Errorf("export: member %s: missing end node %s", m.ID, m.EndNode)
		}
		if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
			return fmt.Errorf("export: member %s: %w", m.ID, err)
		}
	}

	if _, err := d.AddLayer(LayerNodes, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: layer %s: %w", LayerNodes, err)
	}
	for _, n := range s.Nodes {
		if _, err := d.Point(n.Position.X, n.Position.Y, n.Position.Z); err != nil {
			return fmt.Errorf("export: node %s: %w", n.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}
