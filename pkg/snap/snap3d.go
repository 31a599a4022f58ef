package snap

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
	"github.com/paulmach/orb"
)

// Options configures the 3D and plane-local cascades.
type Options struct {
	SnapRadius float64 `yaml:"snap_radius"`
	GridSize   float64 `yaml:"grid_size"`
	// PlaneTolerance is the on-plane distance for ResolveOnPlane candidates;
	// zero means plane.DefaultOnPlaneThreshold.
	PlaneTolerance float64 `yaml:"plane_tolerance"`
}

// DefaultOptions matches the editor defaults.
var DefaultOptions = Options{
	SnapRadius:     0.5,
	GridSize:       1,
	PlaneTolerance: plane.DefaultOnPlaneThreshold,
}

func (o Options) planeTolerance() float64 {
	if o.PlaneTolerance > 0 {
		return o.PlaneTolerance
	}
	return plane.DefaultOnPlaneThreshold
}

// Result3D is a snap in world coordinates.
type Result3D = Result[vec.Vec3]

var world = space[vec.Vec3]{
	distance: vec.Vec3.Distance,
	midpoint: vec.Vec3.Midpoint,
	grid: func(p vec.Vec3, size float64) vec.Vec3 {
		return vec.New(roundTo(p.X, size), roundTo(p.Y, size), roundTo(p.Z, size))
	},
}

// Resolve3D snaps a world-space cursor against model nodes and members,
// rounding each world coordinate independently in the grid stage.
func Resolve3D(cursor vec.Vec3, nodes []model.Node, members []model.Member, opts Options) Result3D {
	points := make([]candidate[vec.Vec3], len(nodes))
	for i, n := range nodes {
		points[i] = candidate[vec.Vec3]{id: n.ID, point: n.Position}
	}
	return resolve(world, cursor, points, memberSegments(members), opts.SnapRadius, opts.GridSize)
}

// ResolveOnPlane runs the cascade in the plane's (u, v) coordinates. Only
// nodes lying on the plane are candidates, so midpoints are only offered
// for members with both ends on the plane. The grid stage rounds u and v,
// and every result is lifted back to world space on the plane.
func ResolveOnPlane(cursor vec.Vec3, nodes []model.Node, members []model.Member, wp plane.WorkingPlane, opts Options) Result3D {
	tol := opts.planeTolerance()
	points := make([]candidate[orb.Point], 0, len(nodes))
	for _, n := range nodes {
		if !plane.IsOnPlane(n.Position, wp, tol) {
			continue
		}
		u, v := plane.WorldToLocal(n.Position, wp)
		points = append(points, candidate[orb.Point]{id: n.ID, point: orb.Point{u, v}})
	}

	cu, cv := plane.WorldToLocal(cursor, wp)
	local := resolve(plane2D, orb.Point{cu, cv}, points, memberSegments(members), opts.SnapRadius, opts.GridSize)
	return Result3D{
		Kind:     local.Kind,
		Point:    plane.LocalToWorld(local.Point[0], local.Point[1], wp),
		SourceID: local.SourceID,
	}
}

// NearestOnPlaneNode returns the id of the closest node that lies within
// tol of the plane (inclusive) and strictly within radius of q.
func NearestOnPlaneNode(q vec.Vec3, nodes []model.Node, wp plane.WorkingPlane, radius, tol float64) (string, bool) {
	best := math.Inf(1)
	id := ""
	for _, n := range nodes {
		if math.Abs(plane.Distance(n.Position, wp)) > tol {
			continue
		}
		d := q.Distance(n.Position)
		if d < radius && d < best {
			best, id = d, n.ID
		}
	}
	return id, id != ""
}

// VisibleNearPlane returns the ids of nodes within the near-plane
// tolerance. These are shown for context while editing on a plane but are
// not snap targets.
func VisibleNearPlane(nodes []model.Node, wp plane.WorkingPlane, tol float64) []string {
	ids := []string{}
	for _, n := range nodes {
		if plane.IsNearPlane(n.Position, wp, tol) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func memberSegments(members []model.Member) []segment {
	segs := make([]segment, len(members))
	for i, m := range members {
		segs[i] = segment{id: m.ID, start: m.StartNode, end: m.EndNode}
	}
	return segs
}
