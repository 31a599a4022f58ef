// Package tessellate walks a structure and produces triangle meshes using a
// geometry kernel: one strut mesh per member, then one joint mesh per node.
package tessellate

import (
	"fmt"
	"runtime"

	"github.com/chazu/structview/pkg/kernel"
	"github.com/chazu/structview/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Options controls preview geometry.
type Options struct {
	StrutRadius float64 `yaml:"strut_radius"`
	// JointRadius <= 0 disables joint spheres.
	JointRadius float64 `yaml:"joint_radius"`
	// Workers bounds concurrent meshing; <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultOptions suits structures modeled in meters.
var DefaultOptions = Options{StrutRadius: 0.05, JointRadius: 0.1}

// part is one solid waiting to be meshed.
type part struct {
	id, kind string
	build    func() (kernel.Solid, error)
}

// Tessellate produces one mesh per member followed by one per node, in
// structure order. The structure is never mutated. A member referencing a
// missing node is an error.
func Tessellate(s *model.Structure, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	parts, err := collect(s, k, opts)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, len(parts))
	var g errgroup.Group
	g.SetLimit(workers(opts))
	for i, p := range parts {
		g.Go(func() error {
			solid, err := p.build()
			if err != nil {
				return fmt.Errorf("tessellate: %s %s: %w", p.kind, p.id, err)
			}
			mesh, err := k.ToMesh(solid)
			if err != nil {
				return fmt.Errorf("tessellate: ToMesh failed for %s %s: %w", p.kind, p.id, err)
			}
			mesh.Part = p.id
			mesh.Kind = p.kind
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Fused unions every strut and joint into a single mesh. It returns nil when
// there is nothing to mesh: an empty structure, or bare nodes with joints
// disabled.
func Fused(s *model.Structure, k kernel.Kernel, opts Options) (*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	parts, err := collect(s, k, opts)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	solids := make([]kernel.Solid, 0, len(parts))
	for _, p := range parts {
		solid, err := p.build()
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s %s: %w", p.kind, p.id, err)
		}
		solids = append(solids, solid)
	}
	mesh, err := k.ToMesh(k.Union(solids...))
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for union: %w", err)
	}
	mesh.Kind = kernel.KindUnion
	return mesh, nil
}

func collect(s *model.Structure, k kernel.Kernel, opts Options) ([]part, error) {
	pos := s.Positions()
	parts := make([]part, 0, len(s.Members)+len(s.Nodes))
	for _, m := range s.Members {
		a, ok := pos[m.StartNode]
		if !ok {
			return nil, fmt.Errorf("tessellate: member %s: missing start node %s", m.ID, m.StartNode)
		}
		b, ok := pos[m.EndNode]
		if !ok {
			return nil, fmt.Errorf("tessellate: member %s: missing end node %s", m.ID, m.EndNode)
		}
		parts = append(parts, part{
			id:    m.ID,
			kind:  kernel.KindMember,
			build: func() (kernel.Solid, error) { return k.Strut(a, b, opts.StrutRadius) },
		})
	}
	if opts.JointRadius > 0 {
		for _, n := range s.Nodes {
			c := n.Position
			parts = append(parts, part{
				id:    n.ID,
				kind:  kernel.KindNode,
				build: func() (kernel.Solid, error) { return k.Joint(c, opts.JointRadius) },
			})
		}
	}
	return parts, nil
}

func workers(opts Options) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}
