// Package calc dispatches metric calculations and containment tests over
// shapes built by package shape. Everything here is a pure function.
package calc

import (
	"fmt"

	"github.com/chazu/geomaster/pkg/shape"
	"golang.org/x/text/cases"
)

// Metric is a measurement requested of a shape.
type Metric int

const (
	Area Metric = iota
	Perimeter
	Volume
	SurfaceArea
)

// Metrics lists every metric in a stable order.
var Metrics = []Metric{Area, Perimeter, Volume, SurfaceArea}

func (m Metric) String() string {
	switch m {
	case Area:
		return "area"
	case Perimeter:
		return "perimeter"
	case Volume:
		return "volume"
	case SurfaceArea:
		return "surface-area"
	default:
		return "unknown"
	}
}

// Capability returns the capability group a shape must belong to for m.
func (m Metric) Capability() shape.Capability {
	switch m {
	case Volume, SurfaceArea:
		return shape.CapabilitySolid
	default:
		return shape.CapabilityPlanar
	}
}

var metricNames = map[string]Metric{
	"area":         Area,
	"perimeter":    Perimeter,
	"volume":       Volume,
	"surface-area": SurfaceArea,
	"surface_area": SurfaceArea,
	"surfacearea":  SurfaceArea,
}

// ParseMetric resolves a metric name, ignoring case.
func ParseMetric(name string) (Metric, error) {
	m, ok := metricNames[cases.Fold().String(name)]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", name)
	}
	return m, nil
}
