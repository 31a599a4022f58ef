// Package snap resolves a cursor position to the most meaningful nearby
// target. Every variant runs the same cascade: an existing node within the
// snap radius, else a member midpoint within the radius, else the nearest
// grid intersection, else the cursor itself.
//
// Ties go to the first candidate found: a later candidate replaces the
// current best only when it is strictly closer.
package snap

import "math"

// Kind names the cascade stage that produced a result.
type Kind string

const (
	KindNode     Kind = "node"
	KindMidpoint Kind = "midpoint"
	KindGrid     Kind = "grid"
	KindNone     Kind = "none"
)

// Result is the outcome of a snap. SourceID is the node id for KindNode and
// the member id for KindMidpoint, empty otherwise.
type Result[P any] struct {
	Kind     Kind   `json:"type"`
	Point    P      `json:"point"`
	SourceID string `json:"sourceId,omitempty"`
}

// Snapped reports whether the cursor was moved onto a target.
func (r Result[P]) Snapped() bool { return r.Kind != KindNone }

// space is the coordinate system a cascade runs in.
type space[P any] struct {
	distance func(a, b P) float64
	midpoint func(a, b P) P
	grid     func(p P, size float64) P
}

type candidate[P any] struct {
	id    string
	point P
}

type segment struct {
	id         string
	start, end string
}

// resolve runs the cascade over pre-extracted candidates. Segments whose
// endpoints are not among points are skipped.
func resolve[P any](sp space[P], cursor P, points []candidate[P], segs []segment, radius, grid float64) Result[P] {
	best := math.Inf(1)
	var hit *candidate[P]
	for i := range points {
		d := sp.distance(cursor, points[i].point)
		if d < radius && d < best {
			best = d
			hit = &points[i]
		}
	}
	if hit != nil {
		return Result[P]{Kind: KindNode, Point: hit.point, SourceID: hit.id}
	}

	index := make(map[string]P, len(points))
	for _, c := range points {
		index[c.id] = c.point
	}
	best = math.Inf(1)
	var (
		mid   P
		midID string
		found bool
	)
	for _, s := range segs {
		a, ok := index[s.start]
		if !ok {
			continue
		}
		b, ok := index[s.end]
		if !ok {
			continue
		}
		m := sp.midpoint(a, b)
		d := sp.distance(cursor, m)
		if d < radius && d < best {
			best, mid, midID, found = d, m, s.id, true
		}
	}
	if found {
		return Result[P]{Kind: KindMidpoint, Point: mid, SourceID: midID}
	}

	if grid > 0 {
		return Result[P]{Kind: KindGrid, Point: sp.grid(cursor, grid)}
	}
	return Result[P]{Kind: KindNone, Point: cursor}
}

// roundTo rounds x to the nearest multiple of grid. Half-way values go
// toward +Inf, so -0.5 snaps to 0 rather than -1.
func roundTo(x, grid float64) float64 {
	return math.Floor(x/grid+0.5) * grid
}
