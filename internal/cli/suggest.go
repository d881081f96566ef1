package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/geomaster/pkg/calc"
	"github.com/chazu/geomaster/pkg/shape"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds the edit distance of a suggestion.
const maxSuggestDistance = 2

// closestMatch returns the candidate target most likely meant, or "".
// Misspellings ("cirlce") are tried before abbreviations ("rect").
func closestMatch(target string, candidates []string) string {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return ""
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != "" {
		return best
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func kindNames() []string {
	names := make([]string, len(shape.Kinds))
	for i, k := range shape.Kinds {
		names[i] = k.String()
	}
	return names
}

func metricNames() []string {
	names := make([]string, len(calc.Metrics))
	for i, m := range calc.Metrics {
		names[i] = m.String()
	}
	return names
}

// withKindHint appends a suggestion to an unsupported kind error.
func withKindHint(err error) error {
	var se *shape.Error
	if !errors.As(err, &se) || se.Code != shape.CodeUnsupportedKind {
		return err
	}
	if s := closestMatch(se.Kind, kindNames()); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}

// parseMetric is calc.ParseMetric with a suggestion on failure.
func parseMetric(name string) (calc.Metric, error) {
	m, err := calc.ParseMetric(name)
	if err != nil {
		if s := closestMatch(name, metricNames()); s != "" {
			return 0, fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return 0, err
	}
	return m, nil
}
