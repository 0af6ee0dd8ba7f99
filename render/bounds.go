package render

import (
	"math"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/timeaxis"
)

// AxisBounds is either Auto or an explicit [Min, Max].
type AxisBounds struct {
	Auto     bool
	Min, Max float64
}

func AutoBounds() AxisBounds {
	return AxisBounds{Auto: true}
}

func Explicit(min, max float64) AxisBounds {
	return AxisBounds{Min: min, Max: max}
}

func (b AxisBounds) Validate(axis string) error {
	if b.Auto {
		return nil
	}
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return common.InvalidArgument("%s bounds [%v, %v] must be finite", axis, b.Min, b.Max)
	}
	if b.Min >= b.Max {
		return common.InvalidArgument("%s bounds [%v, %v] need min < max", axis, b.Min, b.Max)
	}
	return nil
}

// Artifacts are the shapes to be drawn, already moved onto the plotting axis
// x = Reference - t by timeaxis. Time labels and time bounds are in time before
// present and are mapped through Reference.
type Artifacts struct {
	Bands     []model.BandPolygon
	Central   model.Curve
	Reference float64
}

func (a Artifacts) points(visit func(p model.Point)) {
	for _, b := range a.Bands {
		for _, p := range b.Points {
			visit(p)
		}
	}
	for _, p := range a.Central {
		visit(p)
	}
}

type boundsMode struct {
	xAuto, yAuto bool
}

type boundsResolver func(a Artifacts, x, y AxisBounds) (Window, error)

var boundsResolvers = map[boundsMode]boundsResolver{
	{xAuto: true, yAuto: true}: func(a Artifacts, _, _ AxisBounds) (Window, error) {
		xmin, xmax := timeRange(a)
		ymin, ymax, _ := valueRange(a, xmin, xmax)
		return Window{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax}, nil
	},
	{xAuto: false, yAuto: true}: func(a Artifacts, x, _ AxisBounds) (Window, error) {
		ymin, ymax, ok := valueRange(a, x.Min, x.Max)
		if !ok {
			return Window{}, common.InvalidArgument("time bounds [%v, %v] exclude every point, cannot derive value bounds",
				timeaxis.Reverse(x.Max, a.Reference), timeaxis.Reverse(x.Min, a.Reference))
		}
		return Window{XMin: x.Min, XMax: x.Max, YMin: ymin, YMax: ymax}, nil
	},
	{xAuto: true, yAuto: false}: func(a Artifacts, _, y AxisBounds) (Window, error) {
		xmin, xmax := timeRange(a)
		return Window{XMin: xmin, XMax: xmax, YMin: y.Min, YMax: y.Max}, nil
	},
	{xAuto: false, yAuto: false}: func(_ Artifacts, x, y AxisBounds) (Window, error) {
		return Window{XMin: x.Min, XMax: x.Max, YMin: y.Min, YMax: y.Max}, nil
	},
}

// ResolveWindow turns the x (time before present) and y (value) settings into a
// window on the plotting axis, so the present ends up on the right.
// Auto time bounds span the observed times, auto value bounds run from 0 (or the
// smallest negative value) to the largest value inside the time bounds.
func ResolveWindow(a Artifacts, x, y AxisBounds) (Window, error) {
	if err := x.Validate("time axis"); err != nil {
		return Window{}, err
	}
	if err := y.Validate("value axis"); err != nil {
		return Window{}, err
	}
	if !x.Auto {
		x = Explicit(timeaxis.Reverse(x.Max, a.Reference), timeaxis.Reverse(x.Min, a.Reference))
	}
	return boundsResolvers[boundsMode{xAuto: x.Auto, yAuto: y.Auto}](a, x, y)
}

func timeRange(a Artifacts) (float64, float64) {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	a.points(func(p model.Point) {
		xmin = math.Min(xmin, p.Time)
		xmax = math.Max(xmax, p.Time)
	})
	if math.IsInf(xmin, 1) {
		return 0, 1
	}
	if xmin == xmax {
		return xmin - 0.5, xmax + 0.5
	}
	return xmin, xmax
}

func valueRange(a Artifacts, xmin, xmax float64) (float64, float64, bool) {
	ymin, ymax := 0.0, 0.0
	found := false
	a.points(func(p model.Point) {
		if p.Time < xmin || p.Time > xmax {
			return
		}
		found = true
		ymin = math.Min(ymin, p.Value)
		ymax = math.Max(ymax, p.Value)
	})
	if !found {
		return 0, 1, false
	}
	if ymax == ymin {
		return ymin, ymin + 1, true
	}
	return ymin, ymax, true
}
