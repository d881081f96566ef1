package calc

import "github.com/chazu/geomaster/pkg/shape"

// Compute returns the exact value of metric m for s.
//
// A metric outside the shape's capability group, or outside the known
// metrics, yields an UNSUPPORTED_CAPABILITY *shape.Error; nothing is
// coerced.
func Compute(s shape.Shape, m Metric) (float64, error) {
	if s.Capability() != m.Capability() {
		return 0, shape.UnsupportedCapability(s.Kind(), m.String())
	}

	switch m {
	case Area:
		return s.(shape.Planar).Area(), nil
	case Perimeter:
		return s.(shape.Planar).Perimeter(), nil
	case Volume:
		return s.(shape.Solid).Volume(), nil
	case SurfaceArea:
		return s.(shape.Solid).SurfaceArea(), nil
	default:
		return 0, shape.UnsupportedCapability(s.Kind(), m.String())
	}
}

// Supported reports the metrics s can be asked for.
func Supported(s shape.Shape) []Metric {
	var out []Metric
	for _, m := range Metrics {
		if m.Capability() == s.Capability() {
			out = append(out, m)
		}
	}
	return out
}
