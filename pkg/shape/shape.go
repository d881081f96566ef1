package shape

import "math"

// Kind is the discriminant of the Shape variant.
type Kind string

const (
	KindCircle    Kind = "circle"
	KindRectangle Kind = "rectangle"
	KindSphere    Kind = "sphere"
)

// Kinds lists the supported shape kinds in a stable order.
var Kinds = []Kind{KindCircle, KindRectangle, KindSphere}

func (k Kind) String() string { return string(k) }

// Capability groups shapes by the metrics they expose.
type Capability int

const (
	CapabilityPlanar Capability = iota // area, perimeter
	CapabilitySolid                    // volume, surface area
)

func (c Capability) String() string {
	switch c {
	case CapabilityPlanar:
		return "planar"
	case CapabilitySolid:
		return "solid"
	default:
		return "unknown"
	}
}

// Parameter keys understood by the factory.
const (
	KeyRadius = "radius"
	KeyWidth  = "width"
	KeyHeight = "height"
)

// Params is a caller-supplied mapping of parameter names to values.
type Params map[string]float64

// Shape is the closed set of supported shapes.
type Shape interface {
	Kind() Kind
	Capability() Capability
	// Params echoes the shape's defining parameters.
	Params() Params

	shape() // marker method restricting implementations to this package
}

// Planar is implemented by every shape with CapabilityPlanar.
type Planar interface {
	Shape
	Area() float64
	Perimeter() float64
}

// Solid is implemented by every shape with CapabilitySolid.
type Solid interface {
	Shape
	Volume() float64
	SurfaceArea() float64
}

var (
	_ Planar = Circle{}
	_ Planar = Rectangle{}
	_ Solid  = Sphere{}
)

// Circle is a disc of the given radius.
type Circle struct {
	Radius float64 `json:"radius"`
}

func (Circle) shape()                 {}
func (Circle) Kind() Kind             { return KindCircle }
func (Circle) Capability() Capability { return CapabilityPlanar }
func (c Circle) Params() Params       { return Params{KeyRadius: c.Radius} }
func (c Circle) Area() float64        { return math.Pi * c.Radius * c.Radius }
func (c Circle) Perimeter() float64   { return 2 * math.Pi * c.Radius }
func (c Circle) Diameter() float64    { return 2 * c.Radius }

// Rectangle is an axis-aligned rectangle.
type Rectangle struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Rectangle) shape()                 {}
func (Rectangle) Kind() Kind             { return KindRectangle }
func (Rectangle) Capability() Capability { return CapabilityPlanar }

func (r Rectangle) Params() Params {
	return Params{KeyWidth: r.Width, KeyHeight: r.Height}
}

func (r Rectangle) Area() float64      { return r.Width * r.Height }
func (r Rectangle) Perimeter() float64 { return 2 * (r.Width + r.Height) }

// Diagonal returns the length of the rectangle's diagonal.
func (r Rectangle) Diagonal() float64 {
	return math.Sqrt(r.Width*r.Width + r.Height*r.Height)
}

// Sphere is a ball of the given radius.
type Sphere struct {
	Radius float64 `json:"radius"`
}

func (Sphere) shape()                 {}
func (Sphere) Kind() Kind             { return KindSphere }
func (Sphere) Capability() Capability { return CapabilitySolid }
func (s Sphere) Params() Params       { return Params{KeyRadius: s.Radius} }

// Volume returns (4/3)·π·r³.
func (s Sphere) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

// SurfaceArea returns 4·π·r².
func (s Sphere) SurfaceArea() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}
