package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/geomaster/pkg/calc"
	"github.com/chazu/geomaster/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites GeoMaster script syntax into something zygomys
// accepts:
//
//   - :radius becomes the string "__kw_radius", recognised by parseArgs;
//   - surface-area becomes surface_area, since zygomys reads a hyphen
//     inside an identifier as subtraction;
//   - ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	p := preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.i < len(p.src) {
		p.step()
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	i   int
	out strings.Builder
}

func (p *preprocessor) step() {
	c := p.src[p.i]
	switch {
	case c == '"':
		p.copyQuoted('"', true)
	case c == '`':
		p.copyQuoted('`', false)
	case c == ';':
		p.out.WriteString("//")
		for p.i < len(p.src) && p.src[p.i] == ';' {
			p.i++
		}
		p.copyUntil('\n')
	case c == ':' && p.i+1 < len(p.src) && p.src[p.i+1] == '=':
		p.out.WriteString(":=")
		p.i += 2
	case c == ':' && p.i+1 < len(p.src) && isLetter(p.src[p.i+1]):
		j := p.i + 1
		for j < len(p.src) && isKWChar(p.src[j]) {
			j++
		}
		fmt.Fprintf(&p.out, "%q", kwPrefix+p.src[p.i+1:j])
		p.i = j
	case c == '-' && p.i > 0 && p.i+1 < len(p.src) &&
		isIdentChar(p.src[p.i-1]) && isLetter(p.src[p.i+1]):
		p.out.WriteByte('_')
		p.i++
	default:
		p.out.WriteByte(c)
		p.i++
	}
}

// copyQuoted copies a quoted literal starting at the opening quote.
func (p *preprocessor) copyQuoted(quote byte, escapes bool) {
	p.out.WriteByte(quote)
	p.i++
	for p.i < len(p.src) && p.src[p.i] != quote {
		if escapes && p.src[p.i] == '\\' && p.i+1 < len(p.src) {
			p.out.WriteString(p.src[p.i : p.i+2])
			p.i += 2
			continue
		}
		p.out.WriteByte(p.src[p.i])
		p.i++
	}
	if p.i < len(p.src) {
		p.out.WriteByte(quote)
		p.i++
	}
}

func (p *preprocessor) copyUntil(stop byte) {
	for p.i < len(p.src) && p.src[p.i] != stop {
		p.out.WriteByte(p.src[p.i])
		p.i++
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Shape values inside the interpreter
// ---------------------------------------------------------------------------

// sexpShape wraps a shape.Shape so it can be passed between builtins.
type sexpShape struct {
	shape shape.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	var b strings.Builder
	b.WriteString("(" + s.shape.Kind().String())
	for _, key := range shape.RequiredKeys(s.shape.Kind()) {
		fmt.Fprintf(&b, " :%s %g", key, s.shape.Params()[key])
	}
	b.WriteString(")")
	return b.String()
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

// toShape extracts a shape from a sexpShape.
func toShape(s zygo.Sexp) (shape.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %s", s.SexpString(nil))
}

// toParams collects shape parameters from keyword arguments. Positional
// numbers fill the kind's required keys in order.
func toParams(kind shape.Kind, pa kwArgs) (shape.Params, error) {
	params := make(shape.Params, len(pa.kw)+len(pa.positional))
	keys := shape.RequiredKeys(kind)
	if len(pa.positional) > len(keys) {
		return nil, fmt.Errorf("expected at most %d positional arguments, got %d", len(keys), len(pa.positional))
	}
	for i, arg := range pa.positional {
		f, err := toFloat64(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keys[i], err)
		}
		params[keys[i]] = f
	}
	for key, arg := range pa.kw {
		f, err := toFloat64(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		params[key] = f
	}
	return params, nil
}

// builtinName maps a metric to the identifier scripts call it by after
// preprocessing.
func builtinName(m calc.Metric) string {
	return strings.ReplaceAll(m.String(), "-", "_")
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the GeoMaster builtins into env. Metric and
// containment calls are appended to res.Records as they run.
//
// Source must go through preprocessSource first so :keyword tokens reach
// the builtins as recognisable strings.
func registerBuiltins(env *zygo.Zlisp, res *Result) {

	// (circle :radius 5), (rectangle 3 4), (sphere :radius 3)
	for _, kind := range shape.Kinds {
		env.AddFunction(kind.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			params, err := toParams(kind, parseArgs(args))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			s, err := shape.Build(kind.String(), params)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpShape{shape: s}, nil
		})
	}

	// (shape "Circle" :radius 5)
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a kind as first argument")
		}
		kind, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: kind: %w", err)
		}
		k, ok := shape.ParseKind(kind)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shape: %w", shape.UnsupportedKind(kind))
		}
		pa.positional = pa.positional[1:]
		params, err := toParams(k, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		s, err := shape.Build(kind, params)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		return &sexpShape{shape: s}, nil
	})

	// (area s), (perimeter s), (volume s), (surface-area s)
	for _, metric := range calc.Metrics {
		env.AddFunction(builtinName(metric), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", metric, len(args))
			}
			s, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", metric, err)
			}
			v, err := calc.Compute(s, metric)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", metric, err)
			}
			res.Records = append(res.Records, Record{Op: OpMetric, Metric: metric.String(), Shape: s, Value: v})
			return &zygo.SexpFloat{Val: v}, nil
		})
	}

	// (contains outer inner)
	env.AddFunction("contains", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("contains requires an outer and an inner shape, got %d arguments", len(args))
		}
		outer, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: outer: %w", err)
		}
		inner, err := toShape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: inner: %w", err)
		}
		ok, err := calc.Contains(outer, inner)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: %w", err)
		}
		res.Records = append(res.Records, Record{Op: OpContains, Shape: outer, Inner: inner, Result: ok})
		return &zygo.SexpBool{Val: ok}, nil
	})
}
