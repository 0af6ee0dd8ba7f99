package quantile

import (
	"math"

	"github.com/uyouii/ratebands/common"
)

// Type7 returns the sample quantile of sorted data at level p, interpolating
// linearly between the order statistics around h = (n-1)p.
// sorted must be ascending and p in [0,1].
func Type7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func ValidateLevels(levels []float64) error {
	for i, p := range levels {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return common.InvalidArgument("quantile level #%d = %v outside [0,1]", i, p)
		}
	}
	return nil
}

// DefaultLevels is 0.00, 0.01, ..., 1.00.
func DefaultLevels() []float64 {
	res := make([]float64, 101)
	for i := range res {
		res[i] = float64(i) / 100
	}
	return res
}
