package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/vec"
	"github.com/spf13/cobra"
)

type planeOptions struct {
	points []string
	align  string
	rotate []string
	snap   bool
	format string
}

// planeReport describes a working plane and what may still move it.
type planeReport struct {
	Plane       plane.WorkingPlane `json:"plane" yaml:"plane"`
	Orientation plane.Orientation  `json:"orientation" yaml:"orientation"`
	Rotatable   []string           `json:"rotatable" yaml:"rotatable"`
}

func newPlaneCmd(c *cli) *cobra.Command {
	opts := planeOptions{}
	cmd := &cobra.Command{
		Use:   "plane",
		Short: "Build a working plane from points",
		Long: `Build a working plane from zero to three points, then optionally align,
rotate and snap it, in that order. Rotations are written axis:degrees, for
example --rotate horizontal:30.`,
		Example: `  structview plane --point 0,0,0 --point 4,0,0 --rotate horizontal:44.5 --snap
  structview plane --align z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.format, false); err != nil {
				return err
			}
			r, err := c.buildPlane(opts)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), opts.format, r)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&opts.points, "point", "p", nil, "constraint point x,y,z (repeat up to 3 times)")
	f.StringVar(&opts.align, "align", "", "align to an axis shortcut: x (floor), y (side wall) or z (front wall)")
	f.StringArrayVar(&opts.rotate, "rotate", nil, "rotate about horizontal or vertical by degrees, as axis:deg")
	f.BoolVar(&opts.snap, "snap", false, "snap the last rotation to the rotation interval")
	f.StringVarP(&opts.format, "format", "f", formatYAML, "output format: json or yaml")
	return cmd
}

func (c *cli) buildPlane(opts planeOptions) (planeReport, error) {
	if len(opts.points) > 3 {
		return planeReport{}, fmt.Errorf("at most 3 points, got %d", len(opts.points))
	}
	points := make([]vec.Vec3, 0, len(opts.points))
	for _, s := range opts.points {
		p, err := vec.Parse(s)
		if err != nil {
			return planeReport{}, err
		}
		points = append(points, p)
	}
	wp := plane.FromPoints(plane.NewCounter(), points...)

	if opts.align != "" {
		target, ok := plane.AxisNormals[opts.align]
		if !ok {
			return planeReport{}, fmt.Errorf("unknown axis %q", opts.align)
		}
		wp, _ = plane.AlignToAxis(wp, target)
	}

	var last vec.Vec3
	for _, arg := range opts.rotate {
		name, deg, err := parseRotation(arg)
		if err != nil {
			return planeReport{}, err
		}
		axis, err := pickAxis(wp, name)
		if err != nil {
			return planeReport{}, err
		}
		wp = plane.Rotate(wp, axis, deg)
		last = axis
	}
	if opts.snap {
		if len(opts.rotate) == 0 {
			return planeReport{}, fmt.Errorf("--snap needs a --rotate")
		}
		wp, _ = c.settings.AngleSnap().Apply(wp, last)
	}

	axes := plane.RotationAxes(wp)
	rotatable := []string{}
	if axes.Horizontal != nil {
		rotatable = append(rotatable, "horizontal")
	}
	if axes.Vertical != nil {
		rotatable = append(rotatable, "vertical")
	}
	return planeReport{Plane: wp, Orientation: plane.Classify(wp.Normal), Rotatable: rotatable}, nil
}

func parseRotation(arg string) (string, float64, error) {
	name, degs, ok := strings.Cut(arg, ":")
	if !ok {
		return "", 0, fmt.Errorf("rotation %q: expected axis:degrees", arg)
	}
	deg, err := strconv.ParseFloat(degs, 64)
	if err != nil {
		return "", 0, fmt.Errorf("rotation %q: %w", arg, err)
	}
	return name, deg, nil
}

func pickAxis(wp plane.WorkingPlane, name string) (vec.Vec3, error) {
	axes := plane.RotationAxes(wp)
	var axis *vec.Vec3
	switch name {
	case "horizontal":
		axis = axes.Horizontal
	case "vertical":
		axis = axes.Vertical
	default:
		return vec.Vec3{}, fmt.Errorf("unknown rotation axis %q", name)
	}
	if axis == nil {
		return vec.Vec3{}, fmt.Errorf("%s rotation is locked on a %s-constrained plane", name, wp.ConstraintType)
	}
	return *axis, nil
}
