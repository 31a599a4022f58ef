package main

import (
	"context"
	"fmt"

	"github.com/chazu/structview/pkg/config"
	"github.com/chazu/structview/pkg/engine"
	"github.com/chazu/structview/pkg/export"
	"github.com/chazu/structview/pkg/kernel"
	"github.com/chazu/structview/pkg/kernel/sdfx"
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/move"
	"github.com/chazu/structview/pkg/place"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/snap"
	"github.com/chazu/structview/pkg/tessellate"
	"github.com/chazu/structview/pkg/vec"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// colorPalette is a default palette used to assign distinct colors to trusses.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// jointColor is used for node spheres.
const jointColor = "#BDC3C7"

// App is the Wails backend. It exposes methods to the frontend via bindings.
// The model itself lives in the frontend; every binding takes the current
// state and returns the new one.
type App struct {
	ctx      context.Context
	settings config.Settings
	log      *zap.Logger
	engine   *engine.Engine
	kernel   kernel.Kernel
	planes   model.IDGenerator
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartID   string    `json:"partId"`
	Kind     string    `json:"kind"`
	Color    string    `json:"color"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Structure *model.Structure     `json:"structure"`
	Meshes    []MeshData           `json:"meshes"`
	Errors    []engine.EvalError   `json:"errors"`
	Warnings  []engine.EvalWarning `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(settings config.Settings, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	opts := append(settings.EngineOptions(), engine.WithLogger(log.Named("engine")))
	return &App{
		settings: settings,
		log:      log,
		engine:   engine.NewEngine(opts...),
		kernel:   sdfx.New(),
		planes:   plane.NewCounter(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Settings returns the active configuration.
func (a *App) Settings() config.Settings {
	return a.settings
}

// ---------------------------------------------------------------------------
// Working plane
// ---------------------------------------------------------------------------

// PlaneResult pairs a plane with whether the requested change applied.
type PlaneResult struct {
	Plane   plane.WorkingPlane `json:"plane"`
	Changed bool               `json:"changed"`
	Color   string             `json:"color"`
}

func (a *App) planeResult(p plane.WorkingPlane, changed bool) PlaneResult {
	return PlaneResult{Plane: p, Changed: changed, Color: plane.Classify(p.Normal).Color()}
}

// NewPlane builds a working plane from up to three selected points.
func (a *App) NewPlane(points []vec.Vec3) PlaneResult {
	return a.planeResult(plane.FromPoints(a.planes, points...), true)
}

// PlaneFromSelection builds a plane from selected nodes and members.
func (a *App) PlaneFromSelection(s *model.Structure, nodeIDs, memberIDs []string) PlaneResult {
	if s == nil {
		return a.planeResult(plane.FromPoints(a.planes), false)
	}
	p, ok := plane.FromSelection(s, nodeIDs, memberIDs, a.planes)
	return a.planeResult(p, ok)
}

func rotationAxis(p plane.WorkingPlane, name string) (vec.Vec3, bool) {
	axes := plane.RotationAxes(p)
	var axis *vec.Vec3
	switch name {
	case "horizontal":
		axis = axes.Horizontal
	case "vertical":
		axis = axes.Vertical
	}
	if axis == nil {
		return vec.Vec3{}, false
	}
	return *axis, true
}

// RotatePlane turns p about its horizontal or vertical axis. A locked or
// unknown axis leaves p unchanged.
func (a *App) RotatePlane(p plane.WorkingPlane, axisName string, degrees float64) PlaneResult {
	axis, ok := rotationAxis(p, axisName)
	if !ok {
		return a.planeResult(p, false)
	}
	return a.planeResult(plane.Rotate(p, axis, degrees), true)
}

// RotatePlaneHeld advances a held-key rotation by one frame. sign is +1 or
// -1; hold is how long the key has been down.
func (a *App) RotatePlaneHeld(p plane.WorkingPlane, axisName string, sign, hold, frame float64) PlaneResult {
	return a.RotatePlane(p, axisName, sign*a.settings.RotationRamp().Step(hold, frame))
}

// TapRotatePlane applies one tap step and then snaps.
func (a *App) TapRotatePlane(p plane.WorkingPlane, axisName string, sign float64) PlaneResult {
	r := a.RotatePlane(p, axisName, sign*a.settings.Rotation.TapAngle)
	if !r.Changed {
		return r
	}
	return a.SnapPlane(r.Plane, axisName)
}

// SnapPlane snaps p to the nearest rotation increment, as on key release.
func (a *App) SnapPlane(p plane.WorkingPlane, axisName string) PlaneResult {
	axis, ok := rotationAxis(p, axisName)
	if !ok {
		return a.planeResult(p, false)
	}
	snapped, changed := a.settings.AngleSnap().Apply(p, axis)
	return a.planeResult(snapped, changed)
}

// AlignPlane applies the x/y/z shortcut: floor, side wall, front wall.
func (a *App) AlignPlane(p plane.WorkingPlane, key string) PlaneResult {
	target, ok := plane.AxisNormals[key]
	if !ok {
		return a.planeResult(p, false)
	}
	aligned, changed := plane.AlignToAxis(p, target)
	return a.planeResult(aligned, changed)
}

// ---------------------------------------------------------------------------
// Snapping
// ---------------------------------------------------------------------------

// SnapRequest asks for the snap target nearest a cursor. With a plane,
// only geometry on the plane is considered and the grid follows the plane.
type SnapRequest struct {
	Cursor    vec.Vec3            `json:"cursor"`
	Structure *model.Structure    `json:"structure"`
	Plane     *plane.WorkingPlane `json:"plane,omitempty"`
}

// Snap resolves a 3D cursor position.
func (a *App) Snap(req SnapRequest) snap.Result3D {
	var nodes []model.Node
	var members []model.Member
	if req.Structure != nil {
		nodes, members = req.Structure.Nodes, req.Structure.Members
	}
	if req.Plane != nil {
		return snap.ResolveOnPlane(req.Cursor, nodes, members, *req.Plane, a.settings.SnapOptions())
	}
	return snap.Resolve3D(req.Cursor, nodes, members, a.settings.SnapOptions())
}

// Snap2D resolves a cursor in the shape editor. last enables guides.
func (a *App) Snap2D(cursor orb.Point, shape model.Shape2D, last *orb.Point) snap.Result2D {
	return snap.Resolve2D(cursor, shape.Nodes, shape.Members, a.settings.SnapOptions2D(last))
}

// VisibleNearPlane lists nodes close enough to p to draw while editing it.
func (a *App) VisibleNearPlane(s *model.Structure, p plane.WorkingPlane) []string {
	if s == nil {
		return []string{}
	}
	return snap.VisibleNearPlane(s.Nodes, p, a.settings.NearPlaneTolerance)
}

// ---------------------------------------------------------------------------
// Shapes and placement
// ---------------------------------------------------------------------------

// Truss builds a template shape.
func (a *App) Truss(kind string, span, depth float64, panels int) (model.Shape2D, error) {
	k, err := model.ParseTrussKind(kind)
	if err != nil {
		return model.Shape2D{}, err
	}
	return model.NewTruss(k, span, depth, panels, model.UUIDGenerator{})
}

// SaveShape turns geometry drawn on p into a reusable shape.
func (a *App) SaveShape(nodes []model.Node, members []model.Member, p plane.WorkingPlane, name string) model.Shape2D {
	return place.SaveToShape2D(nodes, members, p, name, model.UUIDGenerator{})
}

// PlaceRequest describes a shape placement along a target edge.
type PlaceRequest struct {
	Shape     model.Shape2D    `json:"shape"`
	Edge      model.TargetEdge `json:"edge"`
	Offset    float64          `json:"offset"`
	Count     int              `json:"count"`
	Structure *model.Structure `json:"structure"`
}

// PreviewPlacement returns the ghost geometry for a placement without
// merging it into the model.
func (a *App) PreviewPlacement(req PlaceRequest) place.Result {
	if req.Count > 1 {
		return place.EqualSpacing(req.Shape, req.Edge, req.Count, nil, a.settings.MergeTolerance, nil).Flatten()
	}
	return place.Shape(req.Shape, req.Edge, req.Offset, nil)
}

// Place commits a placement and returns what to add to the model.
func (a *App) Place(req PlaceRequest) place.Committed {
	var existing []model.Node
	if req.Structure != nil {
		existing = req.Structure.Nodes
	}
	c := place.Commit(place.CommitRequest{
		Shape:     req.Shape,
		Edge:      req.Edge,
		Offset:    req.Offset,
		Count:     req.Count,
		Existing:  existing,
		Tolerance: a.settings.MergeTolerance,
	})
	a.log.Info("placement committed",
		zap.String("shape", req.Shape.Name),
		zap.Int("copies", len(c.TrussIDs)),
		zap.Int("nodes", len(c.Nodes)),
		zap.Int("members", len(c.Members)),
		zap.Int("merged", c.Merged()))
	return c
}

// PlaceOnPlane lays a shape flat on p at (u, v).
func (a *App) PlaceOnPlane(shape model.Shape2D, p plane.WorkingPlane, u, v float64) place.Result {
	return place.OnPlane(shape, p, u, v, nil)
}

// ---------------------------------------------------------------------------
// Moving trusses
// ---------------------------------------------------------------------------

// MoveRequest drags a placed truss. Delta is constrained to the axis
// plane; the truss then snaps onto nearby nodes of other trusses.
type MoveRequest struct {
	Structure *model.Structure `json:"structure"`
	TrussID   string           `json:"trussId"`
	Delta     vec.Vec3         `json:"delta"`
	Plane     model.AxisPlane  `json:"plane"`
}

// MoveResult is the moved structure plus the node snap that applied, if any.
type MoveResult struct {
	Structure *model.Structure  `json:"structure"`
	Snap      *snap.GroupResult `json:"snap,omitempty"`
}

// MoveTruss translates a truss and applies group snapping.
func (a *App) MoveTruss(req MoveRequest) MoveResult {
	if req.Structure == nil {
		return MoveResult{}
	}
	moved := move.TranslateTruss(req.Structure, req.TrussID, move.ConstrainToPlane(req.Delta, req.Plane))
	g, ok := snap.Group(moved.TrussNodes(req.TrussID), moved.Nodes, req.TrussID, a.settings.SnapRadius)
	if !ok {
		return MoveResult{Structure: moved}
	}
	return MoveResult{Structure: move.TranslateTruss(moved, req.TrussID, g.Delta), Snap: &g}
}

// NudgeTruss moves a truss one step in a keyboard direction.
func (a *App) NudgeTruss(s *model.Structure, trussID, direction string, ap model.AxisPlane) (*model.Structure, error) {
	if s == nil {
		return nil, fmt.Errorf("nudge: no structure")
	}
	d, err := move.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return move.TranslateTruss(s, trussID, move.Nudge(d, ap, a.settings.GridSize)), nil
}

// RotateTruss turns a truss about its centroid, snapped to the rotation
// interval.
func (a *App) RotateTruss(s *model.Structure, trussID string, degrees float64, ap model.AxisPlane) *model.Structure {
	if s == nil {
		return nil
	}
	return move.RotateTruss(s, trussID, move.SnapAngle(degrees, a.settings.Rotation.SnapInterval), ap)
}

// ---------------------------------------------------------------------------
// Scripts and preview
// ---------------------------------------------------------------------------

// Evaluate runs a script and returns its structure with preview meshes.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	res := a.engine.EvaluateResult(source)
	out := EvalResult{
		Structure: res.Structure,
		Meshes:    []MeshData{},
		Errors:    res.Errors,
		Warnings:  res.Warnings,
	}
	if out.Errors == nil {
		out.Errors = []engine.EvalError{}
	}
	if out.Warnings == nil {
		out.Warnings = []engine.EvalWarning{}
	}
	if len(out.Errors) > 0 || res.Structure == nil {
		return out
	}

	meshes, err := a.Preview(res.Structure)
	if err != nil {
		a.log.Error("tessellation failed", zap.Error(err))
		out.Errors = append(out.Errors, engine.EvalError{Message: "tessellation failed: " + err.Error()})
		return out
	}
	out.Meshes = meshes
	return out
}

// Preview tessellates a structure: one strut per member and one sphere per
// node. Members are colored by truss.
func (a *App) Preview(s *model.Structure) ([]MeshData, error) {
	meshes, err := tessellate.Tessellate(s, a.kernel, a.settings.Preview)
	if err != nil {
		return nil, err
	}

	trussOf := make(map[string]string, len(s.Members))
	for _, m := range s.Members {
		trussOf[m.ID] = m.TrussID
	}
	colors := map[string]string{}

	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		color := jointColor
		if m.Kind == kernel.KindMember {
			tid := trussOf[m.Part]
			c, ok := colors[tid]
			if !ok {
				c = colorPalette[len(colors)%len(colorPalette)]
				colors[tid] = c
			}
			color = c
		}
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartID:   m.Part,
			Kind:     m.Kind,
			Color:    color,
		})
	}
	return out, nil
}

// Validate reports structural problems in the model.
func (a *App) Validate(s *model.Structure) []model.ValidationError {
	if s == nil {
		return []model.ValidationError{}
	}
	return model.Validate(s)
}

// ExportDXF writes the structure to path.
func (a *App) ExportDXF(s *model.Structure, path string) error {
	if err := export.WriteDXF(path, s); err != nil {
		a.log.Error("dxf export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	a.log.Info("dxf exported", zap.String("path", path), zap.Int("members", len(s.Members)))
	return nil
}
