// Package merge deduplicates coincident nodes and rewrites member
// endpoints through the resulting remap table.
package merge

import (
	"github.com/chazu/structview/pkg/model"
)

// DefaultTolerance is the merge distance in model units.
const DefaultTolerance = 0.001

// Remap maps discarded node ids to the ids that replace them.
type Remap map[string]string

// Resolve returns the replacement for id, or id itself when unmapped.
func (r Remap) Resolve(id string) string {
	if to, ok := r[id]; ok {
		return to
	}
	return id
}

// Merge copies every entry of other into r.
func (r Remap) Merge(other Remap) {
	for k, v := range other {
		r[k] = v
	}
}

// CoincidentNodes keeps each incoming node unless an existing node lies
// within tol (inclusive). Existing nodes are scanned in order and the first
// match wins; the discarded id is recorded in the returned Remap. Incoming
// nodes are only compared against existing, never against each other.
func CoincidentNodes(existing, incoming []model.Node, tol float64) ([]model.Node, Remap) {
	kept := make([]model.Node, 0, len(incoming))
	remap := make(Remap)
	for _, n := range incoming {
		merged := false
		for _, e := range existing {
			if n.Position.Distance(e.Position) <= tol {
				remap[n.ID] = e.ID
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, n)
		}
	}
	return kept, remap
}

// ApplyRemap rewrites member endpoints through r and drops members that
// become degenerate. The input slice is not modified.
func ApplyRemap(members []model.Member, r Remap) []model.Member {
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		m.StartNode = r.Resolve(m.StartNode)
		m.EndNode = r.Resolve(m.EndNode)
		if m.Degenerate() {
			continue
		}
		out = append(out, m)
	}
	return out
}
