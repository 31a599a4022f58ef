package snap

import (
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
)

// GroupResult pairs a node of a moving truss with the model node it would
// land on.
type GroupResult struct {
	GroupNodeID    string   `json:"trussNodeId"`
	TargetNodeID   string   `json:"targetNodeId"`
	TargetPosition vec.Vec3 `json:"targetPosition"`
	Distance       float64  `json:"distance"`
	// Delta moves the whole truss so the pair coincides.
	Delta vec.Vec3 `json:"delta"`
}

// Group finds the closest pair between groupNodes and the nodes of all that
// belong to a different truss than groupID. Pairs farther apart than
// threshold are ignored; among equally close pairs the first wins.
func Group(groupNodes, all []model.Node, groupID string, threshold float64) (GroupResult, bool) {
	var (
		best  GroupResult
		found bool
	)
	for _, gn := range groupNodes {
		for _, t := range all {
			if t.TrussID == groupID {
				continue
			}
			d := gn.Position.Distance(t.Position)
			if d <= threshold && (!found || d < best.Distance) {
				best = GroupResult{
					GroupNodeID:    gn.ID,
					TargetNodeID:   t.ID,
					TargetPosition: t.Position,
					Distance:       d,
					Delta:          t.Position.Sub(gn.Position),
				}
				found = true
			}
		}
	}
	return best, found
}
