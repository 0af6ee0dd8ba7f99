// Package timeaxis flips time before present into the plotting orientation.
// Reverse is its own inverse when the same reference is used.
package timeaxis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/uyouii/ratebands/model"
)

func Reverse(t, ref float64) float64 {
	return ref - t
}

// Reference is the largest time bin, 0 for no bins.
func Reference(times []float64) float64 {
	if len(times) == 0 {
		return 0
	}
	return floats.Max(times)
}

func ApplyTimes(times []float64, ref float64) []float64 {
	res := make([]float64, len(times))
	for i, t := range times {
		res[i] = Reverse(t, ref)
	}
	return res
}

func ApplyCurve(curve model.Curve, ref float64) model.Curve {
	if curve == nil {
		return nil
	}
	res := make(model.Curve, len(curve))
	for i, p := range curve {
		res[i] = model.Point{Time: Reverse(p.Time, ref), Value: p.Value}
	}
	return res
}

func ApplyBand(b model.BandPolygon, ref float64) model.BandPolygon {
	return model.BandPolygon{Lower: b.Lower, Upper: b.Upper, Points: ApplyCurve(b.Points, ref)}
}

func ApplyBands(bands []model.BandPolygon, ref float64) []model.BandPolygon {
	res := make([]model.BandPolygon, len(bands))
	for i, b := range bands {
		res[i] = ApplyBand(b, ref)
	}
	return res
}
