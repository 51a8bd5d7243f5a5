package pricing

import (
	"math"
	"strconv"
)

// round2 rounds to 2 decimals, resolving ties on the exact binary value
// half-to-even.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
