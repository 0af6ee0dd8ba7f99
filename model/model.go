package model

import "fmt"

type CentralMode int

const (
	MeanMode   CentralMode = 0
	MedianMode CentralMode = 1
)

func (m CentralMode) String() string {
	switch m {
	case MeanMode:
		return "mean"
	case MedianMode:
		return "median"
	}
	return fmt.Sprintf("CentralMode(%d)", int(m))
}

func ParseCentralMode(s string) (CentralMode, bool) {
	switch s {
	case "", "mean":
		return MeanMode, true
	case "median":
		return MedianMode, true
	}
	return MeanMode, false
}

// Point is one (time, value) sample of a curve or polygon.
type Point struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

type Curve []Point

func (c Curve) Times() []float64 {
	res := make([]float64, len(c))
	for i := range c {
		res[i] = c[i].Time
	}
	return res
}

func (c Curve) Values() []float64 {
	res := make([]float64, len(c))
	for i := range c {
		res[i] = c[i].Value
	}
	return res
}

func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	res := make(Curve, len(c))
	copy(res, c)
	return res
}

// QuantileCurve holds the per-bin quantile at Level across samples.
type QuantileCurve struct {
	Level  float64 `json:"level"`
	Points Curve   `json:"points"`
}

// BandPolygon is closed: the Lower curve forward in time, then the Upper curve backward.
type BandPolygon struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Points Curve   `json:"points"`
}

func (b BandPolygon) Half() int {
	return len(b.Points) / 2
}

// Result is what collect mode returns.
type Result struct {
	Bands   []BandPolygon `json:"bands"`
	Central Curve         `json:"central"`
	Times   []float64     `json:"times"`
}

func (r *Result) DebugString() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("bands: %d, centralPoints: %d, times: %d", len(r.Bands), len(r.Central), len(r.Times))
}
