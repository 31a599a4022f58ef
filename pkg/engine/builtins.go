package engine

import (
	"fmt"

	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vec.Vec3.
type sexpVec3 struct {
	vec vec.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPlane wraps a plane.WorkingPlane.
type sexpPlane struct {
	plane plane.WorkingPlane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(plane %s %s normal=%s)", p.plane.ID, p.plane.ConstraintType, p.plane.Normal)
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

// sexpEdge wraps a model.TargetEdge.
type sexpEdge struct {
	edge model.TargetEdge
}

func (e *sexpEdge) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(edge %s %s)", e.edge.Start, e.edge.End)
}
func (e *sexpEdge) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a model.Shape2D so it can be returned from `truss`
// and consumed by the placement builtins.
type sexpShape struct {
	shape model.Shape2D
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %q nodes=%d members=%d)", s.shape.Name, len(s.shape.Nodes), len(s.shape.Members))
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef names a node already added to the structure.
type sexpNodeRef struct {
	id string
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(noderef %q)", n.id)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Domain value extraction
// ---------------------------------------------------------------------------

// toNodeID accepts a node reference or a plain id string.
func toNodeID(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *zygo.SexpStr:
		if _, isKeyword := isKW(v); !isKeyword {
			return v.S, nil
		}
	}
	return "", fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (vec.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return vec.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPoint accepts a vec3 or a reference to an existing node.
func (b *builder) toPoint(s zygo.Sexp) (vec.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	id, err := toNodeID(s)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("expected vec3 or node, got %T (%s)", s, s.SexpString(nil))
	}
	n, ok := b.s.NodeByID(id)
	if !ok {
		return vec.Vec3{}, fmt.Errorf("no node %q", id)
	}
	return n.Position, nil
}

// toPlane extracts a WorkingPlane from a sexpPlane.
func toPlane(s zygo.Sexp) (plane.WorkingPlane, error) {
	if p, ok := s.(*sexpPlane); ok {
		return p.plane, nil
	}
	return plane.WorkingPlane{}, fmt.Errorf("expected plane, got %T (%s)", s, s.SexpString(nil))
}

// toEdge extracts a TargetEdge from a sexpEdge.
func toEdge(s zygo.Sexp) (model.TargetEdge, error) {
	if e, ok := s.(*sexpEdge); ok {
		return e.edge, nil
	}
	return model.TargetEdge{}, fmt.Errorf("expected edge, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a Shape2D from a sexpShape.
func toShape(s zygo.Sexp) (model.Shape2D, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return model.Shape2D{}, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toRotationAxis resolves :horizontal or :vertical against the axes the
// plane's constraint leaves free.
func toRotationAxis(s zygo.Sexp, wp plane.WorkingPlane) (vec.Vec3, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return vec.Vec3{}, err
	}
	axes := plane.RotationAxes(wp)
	var axis *vec.Vec3
	switch name {
	case "horizontal":
		axis = axes.Horizontal
	case "vertical":
		axis = axes.Vertical
	default:
		return vec.Vec3{}, fmt.Errorf("invalid axis %q, expected horizontal or vertical", name)
	}
	if axis == nil {
		return vec.Vec3{}, fmt.Errorf("%s rotation is locked on a %s-constrained plane", name, wp.ConstraintType)
	}
	return *axis, nil
}

func stringList(items []string) zygo.Sexp {
	out := make([]zygo.Sexp, len(items))
	for i, s := range items {
		out[i] = &zygo.SexpStr{S: s}
	}
	return zygo.MakeList(out)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all structview DSL builtins into a zygomys
// environment. The builtins populate the builder's structure during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: vec.New(xyz[0], xyz[1], xyz[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (plane) (plane p) (plane p1 p2) (plane p1 p2 p3)
	// Points are vec3 values or node references.
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		points := make([]vec.Vec3, 0, len(args))
		for i, a := range args {
			p, err := b.toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: point %d: %w", i+1, err)
			}
			points = append(points, p)
		}
		return &sexpPlane{plane: plane.FromPoints(b.planes, points...)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate-plane p :horizontal 15)
	// -----------------------------------------------------------------------
	env.AddFunction("rotate_plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("rotate-plane requires a plane, an axis and degrees")
		}
		wp, err := toPlane(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-plane: %w", err)
		}
		axis, err := toRotationAxis(args[1], wp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-plane: %w", err)
		}
		deg, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-plane: degrees: %w", err)
		}
		return &sexpPlane{plane: plane.Rotate(wp, axis, deg)}, nil
	})

	// -----------------------------------------------------------------------
	// (snap-plane p :horizontal)
	// -----------------------------------------------------------------------
	env.AddFunction("snap_plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("snap-plane requires a plane and an axis")
		}
		wp, err := toPlane(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("snap-plane: %w", err)
		}
		axis, err := toRotationAxis(args[1], wp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("snap-plane: %w", err)
		}
		snapped, _ := b.snap.Apply(wp, axis)
		return &sexpPlane{plane: snapped}, nil
	})

	// -----------------------------------------------------------------------
	// (align-plane p :x)   x -> floor, y -> side wall, z -> front wall
	// -----------------------------------------------------------------------
	env.AddFunction("align_plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("align-plane requires a plane and an axis")
		}
		wp, err := toPlane(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("align-plane: %w", err)
		}
		key, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("align-plane: %w", err)
		}
		target, ok := plane.AxisNormals[key]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("align-plane: invalid axis %q, expected x, y, or z", key)
		}
		aligned, _ := plane.AlignToAxis(wp, target)
		return &sexpPlane{plane: aligned}, nil
	})

	// -----------------------------------------------------------------------
	// (plane-point p u v) -> vec3 in world space
	// -----------------------------------------------------------------------
	env.AddFunction("plane_point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("plane-point requires a plane, u and v")
		}
		wp, err := toPlane(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane-point: %w", err)
		}
		u, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane-point: u: %w", err)
		}
		v, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane-point: v: %w", err)
		}
		return &sexpVec3{vec: plane.LocalToWorld(u, v, wp)}, nil
	})

	// -----------------------------------------------------------------------
	// (node (vec3 0 0 0)) or (node "id" (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var id string
		switch len(args) {
		case 1:
		case 2:
			s, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: id: %w", err)
			}
			id = s
			args = args[1:]
		default:
			return zygo.SexpNull, fmt.Errorf("node requires a position and an optional id")
		}
		pos, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: position: %w", err)
		}
		id, err = b.addNode(id, pos)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		return &sexpNodeRef{id: id}, nil
	})

	// -----------------------------------------------------------------------
	// (member a b)
	// -----------------------------------------------------------------------
	env.AddFunction("member", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("member requires two node references")
		}
		start, err := toNodeID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("member: start: %w", err)
		}
		end, err := toNodeID(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("member: end: %w", err)
		}
		id, err := b.addMember(start, end)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("member: %w", err)
		}
		return &zygo.SexpStr{S: id}, nil
	})

	// -----------------------------------------------------------------------
	// (edge a b) where a and b are vec3 values or node references
	// -----------------------------------------------------------------------
	env.AddFunction("edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("edge requires a start and an end")
		}
		start, err := b.toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: start: %w", err)
		}
		end, err := b.toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: end: %w", err)
		}
		return &sexpEdge{edge: model.TargetEdge{Start: start, End: end}}, nil
	})

	// -----------------------------------------------------------------------
	// (truss :pratt :span 10 :depth 2 :panels 4)
	// -----------------------------------------------------------------------
	env.AddFunction("truss", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		// The kind comes first and is itself a keyword, so it is taken
		// before the remaining options are paired up.
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("truss requires a kind (:pratt, :howe, :warren, :scissors)")
		}
		pa, err := parseArgs(args[1:], "span", "depth", "panels")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		if len(pa.positional) != 0 {
			return zygo.SexpNull, fmt.Errorf("truss: unexpected positional arguments")
		}
		kindName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: kind: %w", err)
		}
		kind, err := model.ParseTrussKind(kindName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		span, err := optFloat(pa, "span", 10)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		depth, err := optFloat(pa, "depth", 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		panels, err := optCount(pa, "panels", 4)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		shape, err := model.NewTruss(kind, span, depth, panels, b.ids)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("truss: %w", err)
		}
		return &sexpShape{shape: shape}, nil
	})

	// -----------------------------------------------------------------------
	// (place shape edge :offset 0.5 :count 3) -> list of truss ids
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa, err := parseArgs(args, "offset", "count")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("place requires a shape and an edge")
		}
		shape, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		edge, err := toEdge(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		offset, err := optFloat(pa, "offset", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		count, err := optCount(pa, "count", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return stringList(b.commit(shape, edge, offset, count)), nil
	})

	// -----------------------------------------------------------------------
	// (place-equal shape edge 5)
	// -----------------------------------------------------------------------
	env.AddFunction("place_equal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("place-equal requires a shape, an edge and a count")
		}
		shape, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-equal: %w", err)
		}
		edge, err := toEdge(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-equal: %w", err)
		}
		count, err := toCount(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-equal: count: %w", err)
		}
		if count < 2 {
			return zygo.SexpNull, fmt.Errorf("place-equal: count must be at least 2, got %d", count)
		}
		return stringList(b.commit(shape, edge, 0, count)), nil
	})

	// -----------------------------------------------------------------------
	// (place-on-plane shape p :u 0 :v 0) -> truss id, or nil for an empty shape
	// -----------------------------------------------------------------------
	env.AddFunction("place_on_plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa, err := parseArgs(args, "u", "v")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-on-plane: %w", err)
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("place-on-plane requires a shape and a plane")
		}
		shape, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-on-plane: %w", err)
		}
		wp, err := toPlane(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-on-plane: %w", err)
		}
		u, err := optFloat(pa, "u", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-on-plane: %w", err)
		}
		v, err := optFloat(pa, "v", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-on-plane: %w", err)
		}
		tid, ok := b.commitOnPlane(shape, wp, u, v)
		if !ok {
			return zygo.SexpNull, nil
		}
		return &zygo.SexpStr{S: tid}, nil
	})
}
