package shape

import (
	"fmt"
	"math"
	"strconv"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnsupportedKind       Code = "UNSUPPORTED_KIND"
	CodeMissingParameter      Code = "MISSING_PARAMETER"
	CodeInvalidParameter      Code = "INVALID_PARAMETER"
	CodeUnsupportedCapability Code = "UNSUPPORTED_CAPABILITY"
	CodeUnsupportedPair       Code = "UNSUPPORTED_PAIR"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrUnsupportedKind       = &Error{Code: CodeUnsupportedKind}
	ErrMissingParameter      = &Error{Code: CodeMissingParameter}
	ErrInvalidParameter      = &Error{Code: CodeInvalidParameter}
	ErrUnsupportedCapability = &Error{Code: CodeUnsupportedCapability}
	ErrUnsupportedPair       = &Error{Code: CodeUnsupportedPair}
)

// Error is a caller-input error raised by the shape model, the calculation
// dispatcher or the containment validator. Which fields are set depends on
// Code.
type Error struct {
	Code Code
	// Kind is the shape kind as the caller supplied it for
	// CodeUnsupportedKind, and the (outer) shape kind otherwise.
	Kind   string
	Key    string  // offending parameter (MISSING/INVALID_PARAMETER)
	Value  float64 // offending value (INVALID_PARAMETER)
	Metric string  // requested metric (UNSUPPORTED_CAPABILITY)
	Inner  string  // inner shape kind (UNSUPPORTED_PAIR)
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeUnsupportedKind:
		return fmt.Sprintf("shape kind %q is not supported", e.Kind)
	case CodeMissingParameter:
		return fmt.Sprintf("parameter %q is required for %s", e.Key, e.Kind)
	case CodeInvalidParameter:
		return fmt.Sprintf("parameter %q of %s must be a positive finite number, got %s",
			e.Key, e.Kind, strconv.FormatFloat(e.Value, 'g', -1, 64))
	case CodeUnsupportedCapability:
		return fmt.Sprintf("%s does not support %s", e.Kind, e.Metric)
	case CodeUnsupportedPair:
		return fmt.Sprintf("containment of %s in %s is not supported", e.Inner, e.Kind)
	default:
		return string(e.Code)
	}
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Field returns the name of the offending input field, if any.
func (e *Error) Field() string {
	switch e.Code {
	case CodeUnsupportedKind:
		return "kind"
	case CodeMissingParameter, CodeInvalidParameter:
		return e.Key
	case CodeUnsupportedCapability:
		return "metric"
	default:
		return ""
	}
}

// UnsupportedKind reports a shape kind outside the supported set.
func UnsupportedKind(kind string) *Error {
	return &Error{Code: CodeUnsupportedKind, Kind: kind}
}

// MissingParameter reports a required parameter absent from the input.
func MissingParameter(kind Kind, key string) *Error {
	return &Error{Code: CodeMissingParameter, Kind: string(kind), Key: key}
}

// InvalidParameter reports a required parameter that is non-positive or
// non-finite.
func InvalidParameter(kind Kind, key string, value float64) *Error {
	return &Error{Code: CodeInvalidParameter, Kind: string(kind), Key: key, Value: value}
}

// UnsupportedCapability reports a metric outside the shape's capability group.
func UnsupportedCapability(kind Kind, metric string) *Error {
	return &Error{Code: CodeUnsupportedCapability, Kind: string(kind), Metric: metric}
}

// UnsupportedPair reports a containment pair with no rule.
func UnsupportedPair(outer, inner Kind) *Error {
	return &Error{Code: CodeUnsupportedPair, Kind: string(outer), Inner: string(inner)}
}

// valid reports whether v is a usable shape dimension.
func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
