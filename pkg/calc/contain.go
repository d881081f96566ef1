package calc

import "github.com/chazu/geomaster/pkg/shape"

// pairKey identifies an ordered (outer, inner) kind combination.
type pairKey struct {
	outer, inner shape.Kind
}

// containRule reports containment, and false in its second result when the
// shapes are not the variants the rule was written for.
type containRule func(outer, inner shape.Shape) (contained, ok bool)

// typed adapts a rule over concrete variants to the table's signature.
func typed[O, I shape.Shape](fn func(O, I) bool) containRule {
	return func(outer, inner shape.Shape) (bool, bool) {
		o, ok := outer.(O)
		if !ok {
			return false, false
		}
		i, ok := inner.(I)
		if !ok {
			return false, false
		}
		return fn(o, i), true
	}
}

// deref turns a pointer to a variant into the variant value.
func deref(s shape.Shape) shape.Shape {
	switch v := s.(type) {
	case *shape.Circle:
		if v != nil {
			return *v
		}
	case *shape.Rectangle:
		if v != nil {
			return *v
		}
	case *shape.Sphere:
		if v != nil {
			return *v
		}
	}
	return s
}

// containRules is the containment dispatch matrix. Only planar pairs have
// rules; any pair absent from the table is unsupported. All comparisons are
// boundary-inclusive.
//
// Circle/rectangle mixes ignore where the inner shape sits and how it is
// rotated: the rectangle's diagonal is compared to the circle's diameter,
// and the circle's diameter to each side of the rectangle.
var containRules = map[pairKey]containRule{
	{shape.KindCircle, shape.KindCircle}: typed(func(o, i shape.Circle) bool {
		return i.Radius <= o.Radius
	}),
	{shape.KindCircle, shape.KindRectangle}: typed(func(o shape.Circle, i shape.Rectangle) bool {
		return i.Diagonal() <= o.Diameter()
	}),
	{shape.KindRectangle, shape.KindCircle}: typed(func(o shape.Rectangle, i shape.Circle) bool {
		return i.Diameter() <= o.Width && i.Diameter() <= o.Height
	}),
	{shape.KindRectangle, shape.KindRectangle}: typed(func(o, i shape.Rectangle) bool {
		return i.Width <= o.Width && i.Height <= o.Height
	}),
}

// Contains reports whether inner fits within outer. Pointers to variants are
// accepted like the values they point to.
// Pairs without a rule, which includes every pair involving a sphere, yield
// an UNSUPPORTED_PAIR *shape.Error.
func Contains(outer, inner shape.Shape) (bool, error) {
	outer, inner = deref(outer), deref(inner)
	rule, ok := containRules[pairKey{outer.Kind(), inner.Kind()}]
	if !ok {
		return false, shape.UnsupportedPair(outer.Kind(), inner.Kind())
	}
	contained, ok := rule(outer, inner)
	if !ok {
		return false, shape.UnsupportedPair(outer.Kind(), inner.Kind())
	}
	return contained, nil
}

// ContainSupported reports whether a containment rule exists for the pair.
func ContainSupported(outer, inner shape.Kind) bool {
	_, ok := containRules[pairKey{outer, inner}]
	return ok
}
