package render

import (
	"math"
	"regexp"
	"strings"

	"github.com/uyouii/ratebands/common"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

var namedColors = map[string]string{
	"black": "000000",
	"blue":  "0000ff",
	"red":   "ff0000",
	"green": "008000",
	"gray":  "808080",
	"grey":  "808080",
	"white": "ffffff",
}

// ParseColor accepts a six digit hex value (with or without '#') or a basic color name.
func ParseColor(s string) (drawing.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[s]; ok {
		return drawing.ColorFromHex(hex), nil
	}
	m := hexColorPattern.FindStringSubmatch(s)
	if m == nil {
		return drawing.Color{}, common.InvalidArgument("color %q is not a name or #rrggbb", s)
	}
	return drawing.ColorFromHex(m[1]), nil
}

// Style holds the cosmetic render settings.
type Style struct {
	BandColor    drawing.Color
	BandOpacity  float64
	CentralColor drawing.Color
	LineWidth    float64
	XTicks       int
	YTicks       int
	AxisLabels   bool
	XLabel       string
	YLabel       string
}

func DefaultStyle() Style {
	return Style{
		BandColor:    drawing.ColorFromHex("0000ff"),
		BandOpacity:  0.01,
		CentralColor: drawing.ColorFromHex("ff0000"),
		LineWidth:    3,
		XTicks:       5,
		YTicks:       5,
		AxisLabels:   true,
		XLabel:       "time before present",
	}
}

func (s Style) Validate() error {
	if math.IsNaN(s.BandOpacity) || s.BandOpacity < 0 || s.BandOpacity > 1 {
		return common.InvalidArgument("band opacity %v outside [0,1]", s.BandOpacity)
	}
	if !(s.LineWidth > 0) {
		return common.InvalidArgument("line width %v must be positive", s.LineWidth)
	}
	if s.XTicks <= 0 || s.YTicks <= 0 {
		return common.InvalidArgument("tick counts (%d, %d) must be positive", s.XTicks, s.YTicks)
	}
	return nil
}

func (s Style) bandFill() drawing.Color {
	c := s.BandColor
	c.A = uint8(math.Round(s.BandOpacity * 255))
	return c
}
