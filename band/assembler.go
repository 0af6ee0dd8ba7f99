package band

import (
	"sort"

	"github.com/uyouii/ratebands/model"
)

// Assemble pairs the lowest level curve with the highest, the second lowest with
// the second highest, and so on. A lone middle curve is a zero width band and is
// dropped. Fewer than two curves gives an empty, non-nil slice.
//
// Every curve must share the same time coordinates.
func Assemble(curves []model.QuantileCurve) []model.BandPolygon {
	sorted := make([]model.QuantileCurve, len(curves))
	copy(sorted, curves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Level < sorted[j].Level
	})

	res := make([]model.BandPolygon, 0, len(sorted)/2)
	for lo, hi := 0, len(sorted)-1; lo < hi; lo, hi = lo+1, hi-1 {
		res = append(res, Polygon(sorted[lo], sorted[hi]))
	}
	return res
}

// Polygon walks low forward in time and comes back along high.
func Polygon(low, high model.QuantileCurve) model.BandPolygon {
	points := make(model.Curve, 0, len(low.Points)+len(high.Points))
	points = append(points, low.Points...)
	for i := len(high.Points) - 1; i >= 0; i-- {
		points = append(points, high.Points[i])
	}
	return model.BandPolygon{
		Lower:  low.Level,
		Upper:  high.Level,
		Points: points,
	}
}

// Split returns the outbound (lower) and return (upper) halves of b, the upper
// half back in ascending time order.
func Split(b model.BandPolygon) (model.Curve, model.Curve) {
	half := b.Half()
	lower := b.Points[:half].Clone()
	upper := make(model.Curve, 0, len(b.Points)-half)
	for i := len(b.Points) - 1; i >= half; i-- {
		upper = append(upper, b.Points[i])
	}
	return lower, upper
}
