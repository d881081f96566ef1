package shape

import "golang.org/x/text/cases"

// ParseKind resolves a caller-supplied kind, ignoring case.
func ParseKind(kind string) (Kind, bool) {
	// A cases.Caser keeps state, so each call gets its own.
	k := Kind(cases.Fold().String(kind))
	_, ok := required[k]
	return k, ok
}

// required lists the parameter keys each kind needs, in check order.
var required = map[Kind][]string{
	KindCircle:    {KeyRadius},
	KindRectangle: {KeyWidth, KeyHeight},
	KindSphere:    {KeyRadius},
}

// RequiredKeys returns the parameter keys kind needs, in check order, or
// nil for an unsupported kind.
func RequiredKeys(kind Kind) []string {
	return append([]string(nil), required[kind]...)
}

// Build validates params for the given kind and constructs the shape.
//
// The kind is matched case-insensitively. Every required key is checked for
// presence before any value is checked, so a missing key is reported ahead
// of an invalid one. Unrecognized keys are ignored. The first violation is
// returned as a *Error.
func Build(kind string, params Params) (Shape, error) {
	k, ok := ParseKind(kind)
	if !ok {
		return nil, UnsupportedKind(kind)
	}
	keys := required[k]

	for _, key := range keys {
		if _, ok := params[key]; !ok {
			return nil, MissingParameter(k, key)
		}
	}
	for _, key := range keys {
		if v := params[key]; !valid(v) {
			return nil, InvalidParameter(k, key, v)
		}
	}

	switch k {
	case KindCircle:
		return Circle{Radius: params[KeyRadius]}, nil
	case KindRectangle:
		return Rectangle{Width: params[KeyWidth], Height: params[KeyHeight]}, nil
	case KindSphere:
		return Sphere{Radius: params[KeyRadius]}, nil
	default:
		return nil, UnsupportedKind(kind)
	}
}

// MustBuild is like Build but panics on error. Intended for tests and
// fixed literals.
func MustBuild(kind string, params Params) Shape {
	s, err := Build(kind, params)
	if err != nil {
		panic("shape: " + err.Error())
	}
	return s
}
