// Package engine evaluates GeoMaster scripts. It wraps zygomys in a
// sandboxed environment with builtins for building shapes, computing
// metrics and testing containment.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/geomaster/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Op names a recorded operation.
type Op string

const (
	OpMetric   Op = "metric"
	OpContains Op = "contains"
)

// Record is one metric or containment evaluated by a script, in call order.
type Record struct {
	Op     Op
	Metric string      // OpMetric only
	Shape  shape.Shape // the measured shape, or the outer one
	Inner  shape.Shape // OpContains only
	Value  float64
	Result bool
}

func (r Record) String() string {
	switch r.Op {
	case OpMetric:
		return fmt.Sprintf("%s %s %v = %s", r.Metric, r.Shape.Kind(), r.Shape.Params(),
			strconv.FormatFloat(r.Value, 'g', -1, 64))
	case OpContains:
		return fmt.Sprintf("contains %s %v in %s %v = %t", r.Inner.Kind(), r.Inner.Params(),
			r.Shape.Kind(), r.Shape.Params(), r.Result)
	default:
		return string(r.Op)
	}
}

// Result is the output of a successful evaluation.
type Result struct {
	// Value is the value of the last top-level expression: a float64, bool,
	// string, shape.Shape, or nil for anything else.
	Value   any
	Records []Record
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment. A call that
// finishes after a newer call started reports itself as superseded.
type Engine struct {
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides DefaultEvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultEvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns its result.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.timeout, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	res := &Result{}
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, res)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	res.Value = fromSexp(last)
	return res, nil, nil
}

// fromSexp converts the interpreter's final value into a Go value.
func fromSexp(s zygo.Sexp) any {
	switch v := s.(type) {
	case *zygo.SexpFloat:
		return v.Val
	case *zygo.SexpInt:
		return float64(v.Val)
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpStr:
		return v.S
	case *sexpShape:
		return v.shape
	default:
		return nil
	}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting a
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
