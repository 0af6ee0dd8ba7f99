package source

import (
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Resample interpolates every sample linearly onto bins evenly spaced times
// spanning window, or the matrix's own time range when window is nil.
func Resample(m *model.RateMatrix, window *TimeWindow, bins int) (*model.RateMatrix, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if bins < 1 {
		return nil, common.InvalidArgument("bin count %d must be positive", bins)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	lo, hi := floats.Min(m.Times), floats.Max(m.Times)
	start, end := lo, hi
	if window != nil {
		if window.Start < lo || window.End > hi {
			return nil, common.InvalidArgument("time window [%v, %v] outside data range [%v, %v]",
				window.Start, window.End, lo, hi)
		}
		start, end = window.Start, window.End
	}
	times := utils.Linspace(start, end, bins)

	xs, keep := distinctTimes(m.Times)
	res := &model.RateMatrix{Values: make([][]float64, m.Samples()), Times: times}
	for i, row := range m.Values {
		out := make([]float64, len(times))
		if len(xs) == 1 {
			for j := range out {
				out[j] = row[keep[0]]
			}
			res.Values[i] = out
			continue
		}
		ys := make([]float64, len(keep))
		for k, col := range keep {
			ys[k] = row[col]
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, common.InvalidArgument("sample %d cannot be interpolated: %v", i, err)
		}
		for j, t := range times {
			out[j] = pl.Predict(t)
		}
		res.Values[i] = out
	}
	return res, nil
}

// distinctTimes drops repeated time bins, keeping the first column of each run.
func distinctTimes(times []float64) ([]float64, []int) {
	xs := []float64{times[0]}
	keep := []int{0}
	for j := 1; j < len(times); j++ {
		if times[j] > xs[len(xs)-1] {
			xs = append(xs, times[j])
			keep = append(keep, j)
		}
	}
	return xs, keep
}
