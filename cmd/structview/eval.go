package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/structview/pkg/engine"
	"github.com/chazu/structview/pkg/export"
	"github.com/chazu/structview/pkg/kernel"
	"github.com/chazu/structview/pkg/kernel/manifold"
	"github.com/chazu/structview/pkg/kernel/sdfx"
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/tessellate"
	"github.com/chazu/structview/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type evalOptions struct {
	format  string
	dxf     string
	watch   bool
	preview string
}

// report is the outcome of evaluating one script.
type report struct {
	File      string               `json:"file" yaml:"file"`
	Structure *model.Structure     `json:"structure,omitempty" yaml:"structure,omitempty"`
	Trusses   int                  `json:"trusses" yaml:"trusses"`
	Triangles int                  `json:"triangles,omitempty" yaml:"triangles,omitempty"`
	Errors    []engine.EvalError   `json:"errors" yaml:"errors"`
	Warnings  []engine.EvalWarning `json:"warnings" yaml:"warnings"`
}

func (r report) failed() bool { return len(r.Errors) > 0 }

func newEvalCmd(c *cli) *cobra.Command {
	opts := evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval <file>...",
		Short: "Evaluate structure scripts",
		Long: `Evaluate one or more structure scripts and report the resulting nodes,
members and trusses. With --watch the scripts are evaluated again whenever
they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.format, true); err != nil {
				return err
			}
			if opts.dxf != "" && len(args) > 1 {
				return errors.New("--dxf takes a single script")
			}
			if opts.preview != "" && opts.preview != "sdfx" && opts.preview != "manifold" {
				return fmt.Errorf("unknown preview kernel %q", opts.preview)
			}
			return c.runEval(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", formatText, "output format: text, json or yaml")
	f.StringVar(&opts.dxf, "dxf", "", "write the structure to this DXF file")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-evaluate when a script changes")
	f.StringVar(&opts.preview, "preview", "", "fuse a preview mesh with this kernel (sdfx or manifold) and report its size")
	return cmd
}

func (c *cli) runEval(ctx context.Context, out io.Writer, files []string, opts evalOptions) error {
	eng := engine.NewEngine(append(c.settings.EngineOptions(), engine.WithLogger(c.log.Named("engine")))...)

	reports, err := c.evalFiles(eng, files, opts)
	if err != nil {
		return err
	}
	if err := c.emit(out, reports, opts); err != nil {
		return err
	}
	if !opts.watch {
		return summarize(reports)
	}

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, c.log.Named("watcher"))
	if err != nil {
		return err
	}
	defer fw.Close()

	changed := make(chan string, len(files))
	if err := fw.Watch(files, func(path string) {
		select {
		case changed <- path:
		default:
		}
	}); err != nil {
		return err
	}
	go fw.Run(ctx)

	c.log.Info("watching scripts", zap.Strings("files", files))
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			reports, err := c.evalFiles(eng, []string{path}, opts)
			if err != nil {
				c.log.Error("re-evaluation failed", zap.String("file", path), zap.Error(err))
				continue
			}
			if err := c.emit(out, reports, opts); err != nil {
				return err
			}
		}
	}
}

// evalFiles reads every script concurrently and evaluates them in order.
// Evaluation itself stays sequential: each run supersedes the engine's
// previous one.
func (c *cli) evalFiles(eng *engine.Engine, files []string, opts evalOptions) ([]report, error) {
	sources := make([][]byte, len(files))
	var g errgroup.Group
	for i, path := range files {
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sources[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var k kernel.Kernel
	if opts.preview != "" {
		var err error
		if k, err = c.previewKernel(opts.preview); err != nil {
			return nil, err
		}
	}

	reports := make([]report, 0, len(files))
	for i, path := range files {
		res := eng.EvaluateResult(string(sources[i]))
		r := report{
			File:      path,
			Structure: res.Structure,
			Errors:    res.Errors,
			Warnings:  res.Warnings,
		}
		if r.failed() {
			c.log.Warn("script failed", zap.String("file", path), zap.Int("errors", len(r.Errors)))
			reports = append(reports, r)
			continue
		}
		r.Trusses = countTrusses(res.Structure)

		if k != nil && len(res.Structure.Nodes) > 0 {
			mesh, err := tessellate.Fused(res.Structure, k, c.settings.Preview)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			// Nodes alone with joints disabled leave nothing to mesh.
			if mesh != nil {
				r.Triangles = mesh.TriangleCount()
			}
		}
		if opts.dxf != "" {
			if err := export.WriteDXF(opts.dxf, res.Structure); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			c.log.Info("dxf exported", zap.String("path", opts.dxf))
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (c *cli) previewKernel(name string) (kernel.Kernel, error) {
	if name == "manifold" {
		return manifold.New(manifold.DefaultSegments)
	}
	return sdfx.New(), nil
}

func countTrusses(s *model.Structure) int {
	ids := map[string]bool{}
	for _, n := range s.Nodes {
		if n.TrussID != "" {
			ids[n.TrussID] = true
		}
	}
	return len(ids)
}

func (c *cli) emit(out io.Writer, reports []report, opts evalOptions) error {
	if opts.format != formatText {
		if len(reports) == 1 {
			return encode(out, opts.format, reports[0])
		}
		return encode(out, opts.format, reports)
	}
	for _, r := range reports {
		if r.failed() {
			for _, e := range r.Errors {
				fmt.Fprintf(out, "%s: %s\n", r.File, e.Error())
			}
			continue
		}
		fmt.Fprintf(out, "%s: %d nodes, %d members, %d trusses",
			r.File, len(r.Structure.Nodes), len(r.Structure.Members), r.Trusses)
		if r.Triangles > 0 {
			fmt.Fprintf(out, ", %d preview triangles", r.Triangles)
		}
		fmt.Fprintln(out)
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "%s: warning: %s\n", r.File, w.Message)
		}
	}
	return nil
}

func summarize(reports []report) error {
	failed := 0
	for _, r := range reports {
		if r.failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(reports))
	}
	return nil
}
