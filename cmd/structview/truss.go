package main

import (
	"fmt"
	"strings"

	"github.com/chazu/structview/pkg/model"
	"github.com/spf13/cobra"
)

type trussOptions struct {
	span   float64
	depth  float64
	panels int
	format string
}

func newTrussCmd(c *cli) *cobra.Command {
	opts := trussOptions{}
	kinds := make([]string, len(model.TrussKinds))
	for i, k := range model.TrussKinds {
		kinds[i] = string(k)
	}
	cmd := &cobra.Command{
		Use:       "truss <kind>",
		Short:     "Print a truss template",
		Long:      fmt.Sprintf("Print a 2D truss template. Kinds: %s.", strings.Join(kinds, ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.format, false); err != nil {
				return err
			}
			kind, err := model.ParseTrussKind(args[0])
			if err != nil {
				return err
			}
			shape, err := model.NewTruss(kind, opts.span, opts.depth, opts.panels, model.NewSequence("t"))
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), opts.format, shape)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&opts.span, "span", 10, "overall length")
	f.Float64Var(&opts.depth, "depth", 2, "height at the deepest point")
	f.IntVar(&opts.panels, "panels", 4, "number of panels")
	f.StringVarP(&opts.format, "format", "f", formatYAML, "output format: json or yaml")
	return cmd
}
