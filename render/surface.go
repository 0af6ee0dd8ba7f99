package render

import (
	"github.com/uyouii/ratebands/model"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Side int

const (
	Bottom Side = 1
	Left   Side = 2
)

type Tick struct {
	Value float64
	Label string
}

// Window is the data range mapped onto the plot area, XMin on the left.
type Window struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Surface is an immediate mode drawing target. Coordinates are in window units.
type Surface interface {
	Clear() error
	SetWindow(w Window) error
	FillPolygon(points model.Curve, color drawing.Color) error
	StrokePolyline(points model.Curve, color drawing.Color, width float64) error
	DrawAxis(side Side, ticks []Tick) error
	DrawText(side Side, text string) error
}
