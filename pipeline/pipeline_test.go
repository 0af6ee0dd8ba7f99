package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/config"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/render"
	"github.com/uyouii/ratebands/source"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type MockProvider struct {
	mock.Mock
	kind source.SourceKind
}

func (m *MockProvider) Kind() source.SourceKind {
	return m.kind
}

func (m *MockProvider) Matrix(ctx context.Context, rate model.RateKind, window *source.TimeWindow,
	node *source.NodeSelector, bins int) (*model.RateMatrix, error) {
	args := m.Called(ctx, rate, window, node, bins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RateMatrix), args.Error(1)
}

type countingSurface struct {
	fills, strokes, frames int
	window                 render.Window
	timeTicks              []render.Tick
}

func (s *countingSurface) Clear() error {
	s.frames++
	return nil
}

func (s *countingSurface) SetWindow(w render.Window) error {
	s.window = w
	return nil
}
func (s *countingSurface) FillPolygon(points model.Curve, color drawing.Color) error {
	s.fills++
	return nil
}
func (s *countingSurface) StrokePolyline(points model.Curve, color drawing.Color, width float64) error {
	s.strokes++
	return nil
}
func (s *countingSurface) DrawAxis(side render.Side, ticks []render.Tick) error {
	if side == render.Bottom {
		s.timeTicks = ticks
	}
	return nil
}
func (s *countingSurface) DrawText(side render.Side, text string) error { return nil }

func scenarioMatrix() *model.RateMatrix {
	return &model.RateMatrix{
		Values: [][]float64{{1, 2, 3}, {3, 2, 1}, {2, 2, 2}},
		Times:  []float64{0, 1, 2},
	}
}

func TestRunCollectScenario(t *testing.T) {
	req := NewRequest()
	req.Matrix = scenarioMatrix()
	req.Levels = []float64{0, 1}
	req.Collect = true

	res, err := Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, res.Times)
	assert.Equal(t, model.Curve{{Time: 0, Value: 2}, {Time: 1, Value: 2}, {Time: 2, Value: 2}}, res.Central)
	require.Len(t, res.Bands, 1)
	assert.Equal(t, model.Curve{{Time: 0, Value: 1}, {Time: 1, Value: 2}, {Time: 2, Value: 1},
		{Time: 2, Value: 3}, {Time: 1, Value: 2}, {Time: 0, Value: 3}}, res.Bands[0].Points)
	// every time in the result is one of the bins
	for _, p := range append(res.Central, res.Bands[0].Points...) {
		assert.Contains(t, res.Times, p.Time)
	}
}

func TestRunDefaultLevels(t *testing.T) {
	req := NewRequest()
	req.Matrix = scenarioMatrix()
	req.Collect = true

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	// 101 levels, the median is dropped
	assert.Len(t, res.Bands, 50)
}

func TestRunNoBands(t *testing.T) {
	req := NewRequest()
	req.Matrix = scenarioMatrix()
	req.Levels = []float64{}
	req.Collect = true

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, res.Bands)
	assert.Empty(t, res.Bands)
	assert.Len(t, res.Central, 3)
}

func TestRunRejectsLevelBeforeMatrixAccess(t *testing.T) {
	provider := &MockProvider{kind: source.DiversificationKind}
	req := NewRequest()
	req.Source = provider
	req.Levels = []float64{0.5, 1.5}
	req.Collect = true

	_, err := Run(context.Background(), req)
	assert.True(t, errors.Is(err, common.ErrorInvalidArgument))
	provider.AssertNotCalled(t, "Matrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunDomainMismatch(t *testing.T) {
	provider := &MockProvider{kind: source.TraitKind}
	req := NewRequest()
	req.Source = provider
	req.Rate = model.Extinction
	req.Collect = true

	_, err := Run(context.Background(), req)
	assert.True(t, errors.Is(err, common.ErrorDomainMismatch))
	provider.AssertNotCalled(t, "Matrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunUsesSource(t *testing.T) {
	provider := &MockProvider{kind: source.DiversificationKind}
	window := &source.TimeWindow{Start: 0, End: 2}
	node := &source.NodeSelector{Node: 3, Mode: source.Include}
	provider.On("Matrix", mock.Anything, model.NetDiversification, window, node, 3).Return(scenarioMatrix(), nil)

	req := NewRequest()
	req.Source = provider
	req.Rate = model.NetDiversification
	req.Window = window
	req.Node = node
	req.Bins = 3
	req.Central = model.MedianMode
	req.Levels = []float64{0.25, 0.75}
	req.Collect = true

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	provider.AssertExpectations(t)
	assert.Equal(t, []float64{2, 2, 2}, res.Central.Values())
	assert.Equal(t, []float64{1.5, 2, 1.5, 2.5, 2, 2.5}, res.Bands[0].Points.Values())
}

func TestRunDefaultBins(t *testing.T) {
	provider := &MockProvider{kind: source.TraitKind}
	provider.On("Matrix", mock.Anything, model.TraitRate, (*source.TimeWindow)(nil), (*source.NodeSelector)(nil),
		DefaultBins).Return(scenarioMatrix(), nil)

	req := NewRequest()
	req.Source = provider
	req.Rate = model.TraitRate
	req.Collect = true

	_, err := Run(context.Background(), req)
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestRunSourceError(t *testing.T) {
	provider := &MockProvider{kind: source.DiversificationKind}
	provider.On("Matrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, common.InvalidArgument("no rates for node 9"))

	req := NewRequest()
	req.Source = provider
	req.Collect = true
	_, err := Run(context.Background(), req)
	assert.True(t, errors.Is(err, common.ErrorInvalidArgument))
}

func TestRunValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"no input", func(r *Request) { r.Matrix = nil }},
		{"both inputs", func(r *Request) { r.Source = &MockProvider{kind: source.TraitKind} }},
		{"matrix with window", func(r *Request) { r.Window = &source.TimeWindow{Start: 0, End: 1} }},
		{"matrix with node", func(r *Request) { r.Node = &source.NodeSelector{Node: 1} }},
		{"matrix with bins", func(r *Request) { r.Bins = 50 }},
		{"bad span", func(r *Request) { r.Smooth = true; r.Span = 0 }},
		{"bad degree", func(r *Request) { r.Smooth = true; r.Degree = 5 }},
		{"bad central", func(r *Request) { r.Central = model.CentralMode(4) }},
		{"render without surface", func(r *Request) { r.Collect = false }},
		{"bad bounds", func(r *Request) {
			r.Collect = false
			r.Surface = &countingSurface{}
			r.YBounds = render.Explicit(3, 1)
		}},
		{"ragged matrix", func(r *Request) { r.Matrix = &model.RateMatrix{Values: [][]float64{{1}}, Times: []float64{0, 1}} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := NewRequest()
			req.Matrix = scenarioMatrix()
			req.Collect = true
			c.mutate(req)
			_, err := Run(context.Background(), req)
			assert.True(t, errors.Is(err, common.ErrorInvalidArgument), "got %v", err)
		})
	}
}

func TestRunRender(t *testing.T) {
	surface := &countingSurface{}
	req := NewRequest()
	req.Matrix = scenarioMatrix()
	req.Levels = []float64{0, 0.25, 0.75, 1}
	req.Surface = surface

	_, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, surface.frames)
	assert.Equal(t, 2, surface.fills)
	assert.Equal(t, 1, surface.strokes)

	req.Overlay = true
	_, err = Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, surface.frames, "overlay skips the frame")
	assert.Equal(t, 4, surface.fills)
}

func TestRunRenderTimeAxis(t *testing.T) {
	surface := &countingSurface{}
	req := NewRequest()
	req.Matrix = scenarioMatrix()
	req.Levels = []float64{0, 1}
	req.Surface = surface

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	// the drawing is flipped, the result is not
	assert.Equal(t, []float64{0, 1, 2}, res.Central.Times())

	assert.Equal(t, 0.0, surface.window.XMin)
	assert.Equal(t, 2.0, surface.window.XMax)
	require.Len(t, surface.timeTicks, 5)
	// the present sits at the right edge
	assert.Equal(t, render.Tick{Value: 2, Label: "0"}, surface.timeTicks[4])
	assert.Equal(t, render.Tick{Value: 0, Label: "2"}, surface.timeTicks[0])

	// time bounds are given as time before present
	req.XBounds = render.Explicit(0, 0.5)
	_, err = Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1.5, surface.window.XMin)
	assert.Equal(t, 2.0, surface.window.XMax)
}

func TestRunSmoothKeepsShape(t *testing.T) {
	m := &model.RateMatrix{Times: make([]float64, 30)}
	for j := range m.Times {
		m.Times[j] = float64(j)
	}
	for i := 0; i < 5; i++ {
		row := make([]float64, len(m.Times))
		for j := range row {
			row[j] = 0.5*float64(j) + float64(i)
		}
		m.Values = append(m.Values, row)
	}

	req := NewRequest()
	req.Matrix = m
	req.Levels = []float64{0.1, 0.9}
	req.Smooth = true
	req.Collect = true

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Bands, 1)
	assert.Len(t, res.Bands[0].Points, 60)
	// central is linear in time, smoothing leaves it alone
	for _, p := range res.Central {
		assert.InDelta(t, 0.5*p.Time+2, p.Value, 1e-8)
	}
}

func TestFromOptions(t *testing.T) {
	opts := config.Default()
	opts.Rate = "extinction"
	opts.Central = "median"
	opts.Levels = []float64{0.05, 0.95}
	opts.XLim = []float64{0, 5}
	opts.Node = &config.NodeOptions{Node: 4, Mode: "exclude"}
	opts.Window = &config.WindowOptions{Start: 1, End: 2}
	opts.BandColor = "#00ff00"

	req := NewRequest()
	require.NoError(t, req.FromOptions(opts))
	assert.Equal(t, model.Extinction, req.Rate)
	assert.Equal(t, model.MedianMode, req.Central)
	assert.Equal(t, 100, req.Bins)
	assert.Equal(t, render.Explicit(0, 5), req.XBounds)
	assert.True(t, req.YBounds.Auto)
	assert.Equal(t, &source.NodeSelector{Node: 4, Mode: source.Exclude}, req.Node)
	assert.Equal(t, &source.TimeWindow{Start: 1, End: 2}, req.Window)
	assert.Equal(t, uint8(255), req.Style.BandColor.G)

	opts.Rate = "origination"
	assert.True(t, errors.Is(req.FromOptions(opts), common.ErrorInvalidArgument))

	opts.Rate = "speciation"
	opts.Kernel = "box"
	assert.True(t, errors.Is(req.FromOptions(opts), common.ErrorInvalidArgument))
}
