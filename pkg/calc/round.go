package calc

import "math"

// Round rounds v to places decimals for display, halves going to the even
// neighbour. The second result is false when v is not finite.
func Round(v float64, places int) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	p := math.Pow10(places)
	r := math.RoundToEven(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		// v*p overflowed; v has no fractional part at this magnitude.
		return v, true
	}
	return r, true
}
