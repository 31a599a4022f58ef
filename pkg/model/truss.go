package model

import (
	"fmt"
	"strings"
)

// TrussKind selects a truss template.
type TrussKind string

const (
	TrussPratt    TrussKind = "pratt"
	TrussHowe     TrussKind = "howe"
	TrussWarren   TrussKind = "warren"
	TrussScissors TrussKind = "scissors"
)

// TrussKinds lists the available templates.
var TrussKinds = []TrussKind{TrussPratt, TrussHowe, TrussWarren, TrussScissors}

// ParseTrussKind matches a template name case-insensitively.
func ParseTrussKind(s string) (TrussKind, error) {
	k := TrussKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TrussKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("model: unknown truss kind %q", s)
}

// NewTruss builds a truss template spanning [0, span] along local X with
// its bottom chord on y=0 and its top chord on y=depth. Bottom chord members
// are flagged as snap edges. A non-positive panel count, span or depth
// yields a shape with no nodes.
func NewTruss(kind TrussKind, span, depth float64, panels int, ids IDGenerator) (Shape2D, error) {
	var web func(b *trussBuilder, i int)
	var name string
	switch kind {
	case TrussPratt:
		name, web = "Pratt Truss", prattWeb
	case TrussHowe:
		name, web = "Howe Truss", howeWeb
	case TrussWarren:
		name, web = "Warren Truss", warrenWeb
	case TrussScissors:
		name, web = "Scissors Truss", scissorsWeb
	default:
		return Shape2D{}, fmt.Errorf("model: unknown truss kind %q", kind)
	}

	shape := Shape2D{
		ID:             ids.NewID(),
		Name:           name,
		Nodes:          []Shape2DNode{},
		Members:        []Shape2DMember{},
		PlacementPlane: PlaneXZ,
	}
	if panels <= 0 || !(span > 0) || !(depth > 0) {
		return shape, nil
	}

	b := newTrussBuilder(span, depth, panels, ids)
	for i := 0; i < panels; i++ {
		b.link(b.bottom[i], b.bottom[i+1], true)
	}
	for i := 0; i < panels; i++ {
		b.link(b.top[i], b.top[i+1], false)
	}
	if kind != TrussWarren && kind != TrussScissors {
		for i := 0; i <= panels; i++ {
			b.link(b.bottom[i], b.top[i], false)
		}
	}
	for i := 0; i < panels; i++ {
		web(b, i)
	}

	shape.Nodes = b.nodes
	shape.Members = b.members
	return shape, nil
}

// PrattTruss has verticals and diagonals sloping toward midspan.
func PrattTruss(span, depth float64, panels int, ids IDGenerator) Shape2D {
	s, _ := NewTruss(TrussPratt, span, depth, panels, ids)
	return s
}

// HoweTruss has verticals and diagonals sloping away from midspan.
func HoweTruss(span, depth float64, panels int, ids IDGenerator) Shape2D {
	s, _ := NewTruss(TrussHowe, span, depth, panels, ids)
	return s
}

// WarrenTruss has alternating diagonals and no verticals.
func WarrenTruss(span, depth float64, panels int, ids IDGenerator) Shape2D {
	s, _ := NewTruss(TrussWarren, span, depth, panels, ids)
	return s
}

// ScissorsTruss has crossed diagonals in every panel.
func ScissorsTruss(span, depth float64, panels int, ids IDGenerator) Shape2D {
	s, _ := NewTruss(TrussScissors, span, depth, panels, ids)
	return s
}

type trussBuilder struct {
	ids     IDGenerator
	panels  int
	bottom  []string
	top     []string
	nodes   []Shape2DNode
	members []Shape2DMember
}

func newTrussBuilder(span, depth float64, panels int, ids IDGenerator) *trussBuilder {
	b := &trussBuilder{ids: ids, panels: panels}
	dx := span / float64(panels)
	for i := 0; i <= panels; i++ {
		b.bottom = append(b.bottom, b.node(float64(i)*dx, 0))
	}
	for i := 0; i <= panels; i++ {
		b.top = append(b.top, b.node(float64(i)*dx, depth))
	}
	return b
}

func (b *trussBuilder) node(x, y float64) string {
	id := b.ids.NewID()
	b.nodes = append(b.nodes, Shape2DNode{ID: id, X: x, Y: y})
	return id
}

func (b *trussBuilder) link(start, end string, snap bool) {
	b.members = append(b.members, Shape2DMember{
		ID:         b.ids.NewID(),
		StartNode:  start,
		EndNode:    end,
		IsSnapEdge: snap,
	})
}

func (b *trussBuilder) leftHalf(i int) bool {
	return float64(i) < float64(b.panels)/2
}

func prattWeb(b *trussBuilder, i int) {
	if b.leftHalf(i) {
		b.link(b.bottom[i+1], b.top[i], false)
	} else {
		b.link(b.bottom[i], b.top[i+1], false)
	}
}

func howeWeb(b *trussBuilder, i int) {
	if b.leftHalf(i) {
		b.link(b.bottom[i], b.top[i+1], false)
	} else {
		b.link(b.bottom[i+1], b.top[i], false)
	}
}

func warrenWeb(b *trussBuilder, i int) {
	if i%2 == 0 {
		b.link(b.bottom[i], b.top[i+1], false)
	} else {
		b.link(b.bottom[i+1], b.top[i], false)
	}
}

func scissorsWeb(b *trussBuilder, i int) {
	b.link(b.bottom[i], b.top[i+1], false)
	b.link(b.bottom[i+1], b.top[i], false)
}
