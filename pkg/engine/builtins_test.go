package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/structview/pkg/model"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(truss :pratt)`,
			expect: `(truss "__kw_pratt")`,
		},
		{
			name:   "multiple keywords",
			input:  `(truss :howe :span 12 :depth 2)`,
			expect: `(truss "__kw_howe" "__kw_span" 12 "__kw_depth" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(rotate-plane p :horizontal 15)`,
			expect: `(rotate_plane p "__kw_horizontal" 15)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 -1 0 -2.5)`,
			expect: `(vec3 -1 0 -2.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:snap-edge`,
			expect: `"__kw_snap-edge"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, eng *Engine, source string) *model.Structure {
	t.Helper()
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil structure")
	}
	return s
}

func expectEvalError(t *testing.T, source, want string) {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil structure")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("error = %q, want containing %q", evalErrs[0].Message, want)
	}
}

func trussIDs(s *model.Structure) map[string]int {
	out := map[string]int{}
	for _, n := range s.Nodes {
		out[n.TrussID]++
	}
	return out
}

// ---------------------------------------------------------------------------
// Nodes and members
// ---------------------------------------------------------------------------

func TestNodesAndMembers(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def a (node "a" (vec3 0 0 0)))
(node "b" (vec3 4 0 0))
(member a "b")
`)
	if len(s.Nodes) != 2 || len(s.Members) != 1 {
		t.Fatalf("got %d nodes %d members, want 2 and 1", len(s.Nodes), len(s.Members))
	}
	m := s.Members[0]
	if m.StartNode != "a" || m.EndNode != "b" {
		t.Errorf("member = %s->%s, want a->b", m.StartNode, m.EndNode)
	}
	b, _ := s.NodeByID("b")
	if b.Position.X != 4 {
		t.Errorf("b.x = %f, expected 4", b.Position.X)
	}
}

func TestAnonymousNodesAreDeterministic(t *testing.T) {
	eng := NewEngine()
	src := `(member (node (vec3 0 0 0)) (node (vec3 1 0 0)))`
	first := mustEval(t, eng, src)
	second := mustEval(t, eng, src)
	for i := range first.Nodes {
		if first.Nodes[i].ID != second.Nodes[i].ID {
			t.Errorf("node %d id changed between runs: %s vs %s", i, first.Nodes[i].ID, second.Nodes[i].ID)
		}
	}
	if first.Members[0].ID != second.Members[0].ID {
		t.Error("member id changed between runs")
	}
}

func TestNodeErrors(t *testing.T) {
	expectEvalError(t, `(node "a" (vec3 0 0 0)) (node "a" (vec3 1 0 0))`, "duplicate node")
	expectEvalError(t, `(node "a" (vec3 0 0 0)) (member "a" "ghost")`, "ghost")
	expectEvalError(t, `(node "a" (vec3 0 0 0)) (member "a" "a")`, "itself")
	expectEvalError(t, `(node "a" 5)`, "expected vec3")
	expectEvalError(t, `(vec3 1 2)`, "exactly 3")
}

// ---------------------------------------------------------------------------
// Placement
// ---------------------------------------------------------------------------

func TestPlaceTrussOnEdge(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def tr (truss :pratt :span 4 :depth 1 :panels 2))
(place tr (edge (vec3 0 0 0) (vec3 4 0 0)))
`)
	if len(s.Nodes) != 6 || len(s.Members) != 9 {
		t.Fatalf("got %d nodes %d members, want 6 and 9", len(s.Nodes), len(s.Members))
	}
	ids := trussIDs(s)
	if len(ids) != 1 {
		t.Errorf("expected one truss id, got %v", ids)
	}

	// The snap edge start lands on the edge start.
	found := false
	for _, n := range s.Nodes {
		if n.Position.Length() < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Error("expected a node at the edge start")
	}
}

func TestPlaceTwiceMergesNodes(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def tr (truss :warren :span 6 :depth 1 :panels 3))
(def e (edge (vec3 0 0 0) (vec3 2 0 0)))
(place tr e)
(place tr e)
`)
	// The second copy coincides with the first, so every node merges.
	if len(s.Nodes) != 8 {
		t.Fatalf("expected 8 nodes after merge, got %d", len(s.Nodes))
	}
	if len(s.Members) != 18 {
		t.Errorf("expected 18 members, got %d", len(s.Members))
	}
	ids := map[string]bool{}
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	for _, m := range s.Members {
		if !ids[m.StartNode] || !ids[m.EndNode] {
			t.Errorf("member %s references a merged-away node", m.ID)
		}
	}
}

func TestPlaceOffsetAndCount(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def tr (truss :pratt :span 2 :depth 1 :panels 1))
(place tr (edge (vec3 0 0 0) (vec3 0 2 0)) :count 3)
`)
	if ids := trussIDs(s); len(ids) != 3 {
		t.Errorf("expected 3 truss ids, got %d", len(ids))
	}

	s = mustEval(t, NewEngine(), `
(def tr (truss :pratt :span 2 :depth 1 :panels 1))
(place tr (edge (vec3 0 0 0) (vec3 2 0 0)) :offset 0.5)
`)
	minX := math.Inf(1)
	for _, n := range s.Nodes {
		minX = math.Min(minX, n.Position.X)
	}
	if math.Abs(minX-1) > 1e-9 {
		t.Errorf("min x = %f, expected 1 after half-edge offset", minX)
	}
}

func TestPlaceEqual(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def tr (truss :howe :span 2 :depth 1 :panels 1))
(place-equal tr (edge (vec3 0 0 0) (vec3 0 10 0)) 5)
`)
	if ids := trussIDs(s); len(ids) != 5 {
		t.Errorf("expected 5 truss ids, got %d", len(ids))
	}
	expectEvalError(t, `(place-equal (truss :howe) (edge (vec3 0 0 0) (vec3 1 0 0)) 1)`, "at least 2")
}

func TestUnknownOption(t *testing.T) {
	expectEvalError(t, `(truss :pratt :spna 4)`, "unknown option :spna")
	expectEvalError(t, `(place (truss :pratt) (edge (vec3 0 0 0) (vec3 1 0 0)) :offest 1)`, "unknown option :offest")
	expectEvalError(t, `(place-on-plane (truss :pratt) (plane) :w 1)`, "expected :u, :v")
	expectEvalError(t, `(truss :pratt :span)`, "option :span needs a value")
}

func TestCountLimits(t *testing.T) {
	edge := `(edge (vec3 0 0 0) (vec3 1 0 0))`
	expectEvalError(t, `(place (truss :pratt) `+edge+` :count 1000000000)`, "exceeds the limit")
	expectEvalError(t, `(place-equal (truss :pratt) `+edge+` 1000000)`, "exceeds the limit")
	expectEvalError(t, `(truss :howe :panels 5000)`, "exceeds the limit")

	// At the limit is still fine.
	s := mustEval(t, NewEngine(), `(def tr (truss :warren :span 1 :depth 1 :panels 1000))`)
	if len(s.Nodes) != 0 {
		t.Errorf("defining a shape should not add nodes, got %d", len(s.Nodes))
	}
}

func TestMergeToleranceOption(t *testing.T) {
	src := `
(node "anchor" (vec3 0 0 0))
(place (truss :pratt :span 2 :depth 1 :panels 1) (edge (vec3 0.1 0 0) (vec3 2.1 0 0)))
`
	loose := mustEval(t, NewEngine(WithMergeTolerance(0.5)), src)
	strict := mustEval(t, NewEngine(), src)
	if len(loose.Nodes) != len(strict.Nodes)-1 {
		t.Errorf("loose tolerance: %d nodes, strict: %d; expected one merge", len(loose.Nodes), len(strict.Nodes))
	}
}

func TestTrussErrors(t *testing.T) {
	expectEvalError(t, `(truss :kingpost)`, "unknown truss kind")
	expectEvalError(t, `(truss)`, "requires a kind")
	expectEvalError(t, `(place (vec3 0 0 0) (edge (vec3 0 0 0) (vec3 1 0 0)))`, "expected shape")
}

// ---------------------------------------------------------------------------
// Planes
// ---------------------------------------------------------------------------

func TestPlaceOnAlignedPlane(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def p (align-plane (plane) :z))
(place-on-plane (truss :warren :span 4 :depth 1 :panels 2) p :u 1 :v 1)
`)
	if len(s.Nodes) == 0 {
		t.Fatal("expected placed nodes")
	}
	for _, n := range s.Nodes {
		if math.Abs(n.Position.Y) > 1e-9 {
			t.Errorf("node %s y = %f, expected 0 on the front wall", n.ID, n.Position.Y)
		}
	}
}

func TestPlaneFromNodes(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(node "a" (vec3 0 0 5))
(node "b" (vec3 1 0 5))
(node "c" (vec3 0 1 5))
(place-on-plane (truss :pratt :span 2 :depth 1 :panels 1) (plane "a" "b" "c"))
`)
	for _, n := range s.Nodes {
		if math.Abs(n.Position.Z-5) > 1e-9 {
			t.Errorf("node %s z = %f, expected 5", n.ID, n.Position.Z)
		}
	}
}

func TestRotatePlane(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def p (rotate-plane (plane) :horizontal 90))
(node "q" (plane-point p 0 1))
`)
	q, _ := s.NodeByID("q")
	// A quarter turn about the horizontal tangent tips the plane upright,
	// so the v direction gains a vertical component.
	if math.Abs(q.Position.Length()-1) > 1e-9 {
		t.Errorf("|q| = %f, expected 1", q.Position.Length())
	}
	if math.Abs(q.Position.Z) < 0.5 {
		t.Errorf("q = %v, expected the plane to stand upright", q.Position)
	}
}

func TestSnapPlane(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def p (snap-plane (rotate-plane (plane) :horizontal 14.5) :horizontal))
(node "q" (plane-point p 0 1))
`)
	q, _ := s.NodeByID("q")
	want := math.Sin(15 * math.Pi / 180)
	if math.Abs(math.Abs(q.Position.Z)-want) > 1e-6 {
		t.Errorf("|q.z| = %f, expected %f after snapping to 15 degrees", math.Abs(q.Position.Z), want)
	}
}

func TestRotateLockedPlane(t *testing.T) {
	expectEvalError(t, `
(rotate-plane (plane (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)) :horizontal 10)
`, "locked")
	expectEvalError(t, `(align-plane (plane) :w)`, "invalid axis")
}

// ---------------------------------------------------------------------------
// Warnings
// ---------------------------------------------------------------------------

func TestOrphanNodeWarning(t *testing.T) {
	res := NewEngine().EvaluateResult(`(node "lonely" (vec3 0 0 0))`)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != model.CodeOrphanNode {
		t.Errorf("warnings = %+v, want one %s", res.Warnings, model.CodeOrphanNode)
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	s := mustEval(t, NewEngine(), `
(def span (* 2 3))
(node "far" (vec3 span 0 0))
`)
	n, _ := s.NodeByID("far")
	if n.Position.X != 6 {
		t.Errorf("x = %f, expected 6", n.Position.X)
	}
}
