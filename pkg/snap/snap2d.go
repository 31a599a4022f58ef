package snap

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultAngleTolerance is the guide tolerance in radians (about 2.9°).
const DefaultAngleTolerance = 0.05

// GuideKind classifies a drawing guide.
type GuideKind string

const (
	GuideParallel      GuideKind = "parallel"
	GuidePerpendicular GuideKind = "perpendicular"
)

// Guide is a non-binding hint that the segment from the last placed point
// to the cursor runs parallel or perpendicular to an existing member.
type Guide struct {
	Kind     GuideKind `json:"type"`
	From     orb.Point `json:"from"`
	To       orb.Point `json:"to"`
	MemberID string    `json:"memberId"`
}

// Options2D configures Resolve2D.
type Options2D struct {
	SnapRadius float64
	GridSize   float64
	// LastNode enables guide detection when non-nil.
	LastNode *orb.Point
	// AngleTolerance in radians; zero means DefaultAngleTolerance.
	AngleTolerance float64
}

// Result2D is a 2D snap plus any guides. Guides never move Point.
type Result2D struct {
	Result[orb.Point]
	Guides []Guide `json:"guides"`
}

var plane2D = space[orb.Point]{
	distance: planar.Distance,
	midpoint: func(a, b orb.Point) orb.Point {
		return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	},
	grid: func(p orb.Point, size float64) orb.Point {
		return orb.Point{roundTo(p[0], size), roundTo(p[1], size)}
	},
}

// Resolve2D snaps a cursor in shape-local coordinates against the nodes
// and members of a 2D shape being drawn.
func Resolve2D(cursor orb.Point, nodes []model.Shape2DNode, members []model.Shape2DMember, opts Options2D) Result2D {
	points := make([]candidate[orb.Point], len(nodes))
	for i, n := range nodes {
		points[i] = candidate[orb.Point]{id: n.ID, point: orb.Point{n.X, n.Y}}
	}
	segs := make([]segment, len(members))
	for i, m := range members {
		segs[i] = segment{id: m.ID, start: m.StartNode, end: m.EndNode}
	}

	out := Result2D{
		Result: resolve(plane2D, cursor, points, segs, opts.SnapRadius, opts.GridSize),
		Guides: []Guide{},
	}
	if opts.LastNode != nil {
		tol := opts.AngleTolerance
		if tol <= 0 {
			tol = DefaultAngleTolerance
		}
		out.Guides = detectGuides(cursor, *opts.LastNode, points, segs, tol)
	}
	return out
}

func detectGuides(cursor, last orb.Point, points []candidate[orb.Point], segs []segment, tol float64) []Guide {
	index := make(map[string]orb.Point, len(points))
	for _, c := range points {
		index[c.id] = c.point
	}

	guides := []Guide{}
	heading := undirected(last, cursor)
	for _, s := range segs {
		a, ok := index[s.start]
		if !ok {
			continue
		}
		b, ok := index[s.end]
		if !ok {
			continue
		}
		diff := math.Abs(heading - undirected(a, b))
		if diff < tol || math.Abs(diff-math.Pi) < tol {
			guides = append(guides, Guide{Kind: GuideParallel, From: last, To: cursor, MemberID: s.id})
		}
		if math.Abs(diff-math.Pi/2) < tol {
			guides = append(guides, Guide{Kind: GuidePerpendicular, From: last, To: cursor, MemberID: s.id})
		}
	}
	return guides
}

// undirected returns the direction from a to b folded into [0, π).
func undirected(a, b orb.Point) float64 {
	t := math.Mod(math.Atan2(b[1]-a[1], b[0]-a[0]), math.Pi)
	if t < 0 {
		t += math.Pi
	}
	return t
}
