package render

import (
	"io"
	"math"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

const (
	tickLength   = 5
	tickFontSize = 10.0
	labelSize    = 12.0
)

var (
	backgroundColor = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	axisColor       = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// ChartSurface draws through a go-chart renderer into a PNG or SVG canvas.
type ChartSurface struct {
	renderer chart.Renderer
	width    int
	height   int
	padding  chart.Box
	window   Window
	hasWin   bool
}

func NewChartSurface(format Format, width, height int) (*ChartSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, common.InvalidArgument("surface size %dx%d must be positive", width, height)
	}
	var provider chart.RendererProvider
	switch format {
	case PNG, "":
		provider = chart.PNG
	case SVG:
		provider = chart.SVG
	default:
		return nil, common.InvalidArgument("unknown surface format %q", format)
	}

	r, err := provider(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	return &ChartSurface{
		renderer: r,
		width:    width,
		height:   height,
		padding:  chart.Box{Top: 20, Left: 70, Right: 20, Bottom: 60},
	}, nil
}

func (s *ChartSurface) Window() (Window, bool) {
	return s.window, s.hasWin
}

func (s *ChartSurface) Clear() error {
	r := s.renderer
	r.ResetStyle()
	r.SetFillColor(backgroundColor)
	r.MoveTo(0, 0)
	r.LineTo(s.width, 0)
	r.LineTo(s.width, s.height)
	r.LineTo(0, s.height)
	r.Close()
	r.Fill()
	return nil
}

func (s *ChartSurface) SetWindow(w Window) error {
	if !(w.XMax > w.XMin) || !(w.YMax > w.YMin) {
		return common.InvalidArgument("degenerate window x=[%v, %v] y=[%v, %v]", w.XMin, w.XMax, w.YMin, w.YMax)
	}
	s.window = w
	s.hasWin = true
	return nil
}

func (s *ChartSurface) plotWidth() float64 {
	return float64(s.width - s.padding.Left - s.padding.Right)
}

func (s *ChartSurface) plotHeight() float64 {
	return float64(s.height - s.padding.Top - s.padding.Bottom)
}

func (s *ChartSurface) toPixel(p model.Point) (int, int) {
	w := s.window
	fx := (p.Time - w.XMin) / (w.XMax - w.XMin)
	fy := (w.YMax - p.Value) / (w.YMax - w.YMin)
	x := float64(s.padding.Left) + fx*s.plotWidth()
	y := float64(s.padding.Top) + fy*s.plotHeight()
	return int(math.Round(x)), int(math.Round(y))
}

func (s *ChartSurface) path(points model.Curve) {
	for i, p := range points {
		x, y := s.toPixel(p)
		if i == 0 {
			s.renderer.MoveTo(x, y)
			continue
		}
		s.renderer.LineTo(x, y)
	}
}

func (s *ChartSurface) checkWindow() error {
	if !s.hasWin {
		return common.InvalidArgument("surface has no coordinate window")
	}
	return nil
}

func (s *ChartSurface) FillPolygon(points model.Curve, color drawing.Color) error {
	if err := s.checkWindow(); err != nil {
		return err
	}
	if len(points) < 3 {
		return nil
	}
	r := s.renderer
	r.ResetStyle()
	r.SetFillColor(color)
	r.SetStrokeWidth(0)
	s.path(points)
	r.Close()
	r.Fill()
	return nil
}

func (s *ChartSurface) StrokePolyline(points model.Curve, color drawing.Color, width float64) error {
	if err := s.checkWindow(); err != nil {
		return err
	}
	if len(points) < 2 {
		return nil
	}
	r := s.renderer
	r.ResetStyle()
	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	s.path(points)
	r.Stroke()
	return nil
}

func (s *ChartSurface) DrawAxis(side Side, ticks []Tick) error {
	if err := s.checkWindow(); err != nil {
		return err
	}
	r := s.renderer
	r.ResetStyle()
	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(1)
	r.SetFontColor(axisColor)
	r.SetFontSize(tickFontSize)

	left, top := s.padding.Left, s.padding.Top
	right, bottom := s.width-s.padding.Right, s.height-s.padding.Bottom

	switch side {
	case Bottom:
		r.MoveTo(left, bottom)
		r.LineTo(right, bottom)
		r.Stroke()
		for _, tick := range ticks {
			x, _ := s.toPixel(model.Point{Time: tick.Value, Value: s.window.YMin})
			r.MoveTo(x, bottom)
			r.LineTo(x, bottom+tickLength)
			r.Stroke()
			box := r.MeasureText(tick.Label)
			r.Text(tick.Label, x-box.Width()/2, bottom+tickLength+box.Height()+4)
		}
	case Left:
		r.MoveTo(left, top)
		r.LineTo(left, bottom)
		r.Stroke()
		for _, tick := range ticks {
			_, y := s.toPixel(model.Point{Time: s.window.XMin, Value: tick.Value})
			r.MoveTo(left-tickLength, y)
			r.LineTo(left, y)
			r.Stroke()
			box := r.MeasureText(tick.Label)
			r.Text(tick.Label, left-tickLength-box.Width()-4, y+box.Height()/2)
		}
	default:
		return common.InvalidArgument("unknown axis side %d", side)
	}
	return nil
}

func (s *ChartSurface) DrawText(side Side, text string) error {
	r := s.renderer
	r.ResetStyle()
	r.SetFontColor(axisColor)
	r.SetFontSize(labelSize)
	box := r.MeasureText(text)

	switch side {
	case Bottom:
		x := s.padding.Left + int(s.plotWidth())/2 - box.Width()/2
		r.Text(text, x, s.height-10)
	case Left:
		y := s.padding.Top + int(s.plotHeight())/2 + box.Width()/2
		r.SetTextRotation(3 * math.Pi / 2)
		r.Text(text, 18, y)
		r.ClearTextRotation()
	default:
		return common.InvalidArgument("unknown text side %d", side)
	}
	return nil
}

func (s *ChartSurface) Save(w io.Writer) error {
	return s.renderer.Save(w)
}
