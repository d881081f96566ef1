package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/geomaster/pkg/shape"
)

// parseParams reads key=value pairs into a parameter mapping. A repeated
// key keeps its last value.
func parseParams(pairs []string) (shape.Params, error) {
	params := make(shape.Params, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q: %w", pair, err)
		}
		params[key] = v
	}
	return params, nil
}

// parseShapeSpec reads "kind:key=v,key=v" and builds the shape.
func parseShapeSpec(spec string) (shape.Shape, error) {
	kind, rest, _ := strings.Cut(spec, ":")
	var pairs []string
	if strings.TrimSpace(rest) != "" {
		pairs = strings.Split(rest, ",")
	}
	params, err := parseParams(pairs)
	if err != nil {
		return nil, err
	}
	s, err := shape.Build(strings.TrimSpace(kind), params)
	if err != nil {
		return nil, withKindHint(err)
	}
	return s, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
