// Package engine provides the Lisp evaluation engine for structview.
// It wraps zygomys in a sandboxed environment and produces a Structure
// from user source code: planes, trusses and placements scripted in Lisp.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/structview/pkg/merge"
	"github.com/chazu/structview/pkg/model"
	"github.com/chazu/structview/pkg/plane"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal finding about the evaluated structure.
type EvalWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Ref is the node or member id the warning is about, if any.
	Ref string `json:"ref,omitempty"`
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Structure *model.Structure `json:"structure"`
	Errors    []EvalError      `json:"errors"`
	Warnings  []EvalWarning    `json:"warnings"`
}

// Engine wraps the zygomys interpreter for structview evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	log       *zap.Logger
	timeout   time.Duration
	tolerance float64
	snap      plane.AngleSnap
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMergeTolerance sets the distance within which placed nodes merge
// into existing ones.
func WithMergeTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithAngleSnap sets the increments used by snap-plane.
func WithAngleSnap(s plane.AngleSnap) Option {
	return func(e *Engine) { e.snap = s }
}

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log:       zap.NewNop(),
		timeout:   EvalTimeout,
		tolerance: merge.DefaultTolerance,
		snap:      plane.DefaultAngleSnap,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Structure.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns structure + nil errors + nil error
//   - On parse/eval failure: returns nil structure + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*model.Structure, []EvalError, error) {
	res := e.run(source)
	return res.structure, res.errors, res.err
}

// EvaluateResult is Evaluate plus validation warnings about the resulting
// structure. A fatal error is reported as a single EvalError.
func (e *Engine) EvaluateResult(source string) EvalResult {
	res := e.run(source)
	if res.err != nil {
		return EvalResult{Errors: []EvalError{{Message: res.err.Error()}}}
	}
	return EvalResult{Structure: res.structure, Errors: res.errors, Warnings: res.warnings}
}

func (e *Engine) run(source string) evalResult {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	log := e.log.With(zap.Uint64("generation", gen))
	log.Debug("evaluation started", zap.Int("bytes", len(source)))
	start := time.Now()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		ch <- e.evaluate(source)
	}()

	res := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	if res.err != nil {
		log.Error("evaluation failed", zap.Error(res.err))
		return res
	}
	fields := []zap.Field{zap.Duration("elapsed", time.Since(start)), zap.Int("errors", len(res.errors))}
	if res.structure != nil {
		fields = append(fields,
			zap.Int("nodes", len(res.structure.Nodes)),
			zap.Int("members", len(res.structure.Members)))
	}
	log.Debug("evaluation finished", fields...)
	return res
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) evalResult {
	// Empty source is a valid program that produces an empty structure.
	if strings.TrimSpace(source) == "" {
		return evalResult{structure: model.NewStructure()}
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder(e.tolerance, e.snap)
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}
	if _, err := env.Run(); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}

	return evalResult{structure: b.s, warnings: warningsFor(b.s)}
}

// warningsFor turns validation findings into evaluation warnings.
func warningsFor(s *model.Structure) []EvalWarning {
	var out []EvalWarning
	for _, f := range model.Validate(s) {
		out = append(out, EvalWarning{Code: f.Code, Message: f.Message, Ref: f.Path})
	}
	return out
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
// Text zygomys puts before the line marker is kept in the message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		loc := re.FindStringSubmatchIndex(msg)
		if loc == nil {
			continue
		}
		line, _ := strconv.Atoi(msg[loc[2]:loc[3]])
		detail := strings.TrimSpace(msg[loc[4]:loc[5]])
		if prefix := strings.TrimSpace(msg[:loc[0]]); prefix != "" {
			detail = strings.TrimSpace(prefix + " " + detail)
		}
		return []EvalError{{Line: line, Message: detail}}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
