package plane

import (
	"math"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/vec"
)

// ParallelEpsilon is the |dir·normal| below which a ray is parallel to a plane.
const ParallelEpsilon = 1e-10

// WorldToLocal projects q into plane coordinates (u, v).
func WorldToLocal(q vec.Vec3, p WorkingPlane) (u, v float64) {
	d := q.Sub(p.Point)
	return d.Dot(p.TangentU), d.Dot(p.TangentV)
}

// LocalToWorld maps plane coordinates back to world space.
func LocalToWorld(u, v float64, p WorkingPlane) vec.Vec3 {
	return p.Point.Add(p.TangentU.Scale(u)).Add(p.TangentV.Scale(v))
}

// Project returns the orthogonal projection of q onto the plane.
func Project(q vec.Vec3, p WorkingPlane) vec.Vec3 {
	u, v := WorldToLocal(q, p)
	return LocalToWorld(u, v, p)
}

// SnapToGrid rounds q's plane coordinates to the nearest multiple of grid,
// with half-way values going toward +Inf. A non-positive grid only projects
// q onto the plane.
func SnapToGrid(q vec.Vec3, p WorkingPlane, grid float64) vec.Vec3 {
	u, v := WorldToLocal(q, p)
	if grid > 0 {
		u = math.Floor(u/grid+0.5) * grid
		v = math.Floor(v/grid+0.5) * grid
	}
	return LocalToWorld(u, v, p)
}

// Raycast intersects the ray origin + t*dir (t >= 0) with the plane. It
// reports false when the ray is parallel to the plane or the plane lies
// behind the origin.
func Raycast(origin, dir vec.Vec3, p WorkingPlane) (vec.Vec3, bool) {
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < ParallelEpsilon {
		return vec.Vec3{}, false
	}
	t := p.Point.Sub(origin).Dot(p.Normal) / denom
	if t < 0 {
		return vec.Vec3{}, false
	}
	return origin.Add(dir.Scale(t)), true
}

// FromSelection builds a plane from selected nodes and members. Node
// positions are gathered first, then member endpoints, and the first three
// points are used. It reports false when nothing in the selection resolves.
func FromSelection(s *model.Structure, nodeIDs, memberIDs []string, ids model.IDGenerator) (WorkingPlane, bool) {
	var points []vec.Vec3
	for _, id := range nodeIDs {
		if n, ok := s.NodeByID(id); ok {
			points = append(points, n.Position)
		}
	}
	for _, id := range memberIDs {
		m, ok := s.MemberByID(id)
		if !ok {
			continue
		}
		if n, ok := s.NodeByID(m.StartNode); ok {
			points = append(points, n.Position)
		}
		if n, ok := s.NodeByID(m.EndNode); ok {
			points = append(points, n.Position)
		}
	}
	if len(points) == 0 {
		return WorkingPlane{}, false
	}
	if len(points) > 3 {
		points = points[:3]
	}
	return FromPoints(ids, points...), true
}
