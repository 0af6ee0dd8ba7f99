package pipeline

import (
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/config"
	"github.com/uyouii/ratebands/loess"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/quantile"
	"github.com/uyouii/ratebands/render"
	"github.com/uyouii/ratebands/source"
)

const DefaultBins = 100

// Request describes one rate-through-time summary. Exactly one of Source and
// Matrix must be set; Window, Node and Bins only apply to Source.
type Request struct {
	Rate   model.RateKind
	Source source.Provider
	Matrix *model.RateMatrix
	Window *source.TimeWindow
	Node   *source.NodeSelector
	Bins   int

	Central model.CentralMode
	// Levels nil means quantile.DefaultLevels, an empty slice means no bands.
	Levels []float64

	Smooth bool
	Span   float64
	Degree int
	Kernel loess.Kernel

	// Collect returns the data without drawing.
	Collect bool
	Surface render.Surface
	Overlay bool
	XBounds render.AxisBounds
	YBounds render.AxisBounds
	Style   render.Style
}

func NewRequest() *Request {
	return &Request{
		Rate:    model.Speciation,
		Central: model.MeanMode,
		Span:    loess.DefaultSpan,
		Degree:  loess.DefaultDegree,
		XBounds: render.AutoBounds(),
		YBounds: render.AutoBounds(),
		Style:   render.DefaultStyle(),
	}
}

func (r *Request) levels() []float64 {
	if r.Levels == nil {
		return quantile.DefaultLevels()
	}
	return r.Levels
}

func (r *Request) bins() int {
	if r.Bins == 0 {
		return DefaultBins
	}
	return r.Bins
}

// Validate checks everything that can be judged without reading the matrix.
func (r *Request) Validate() error {
	if err := quantile.ValidateLevels(r.Levels); err != nil {
		return err
	}
	if r.Central != model.MeanMode && r.Central != model.MedianMode {
		return common.InvalidArgument("unknown central tendency mode %v", r.Central)
	}

	switch {
	case r.Source == nil && r.Matrix == nil:
		return common.InvalidArgument("either a rate source or a rate matrix is required")
	case r.Source != nil && r.Matrix != nil:
		return common.InvalidArgument("a rate source and a precomputed rate matrix are mutually exclusive")
	case r.Matrix != nil && (r.Window != nil || r.Node != nil || r.Bins != 0):
		return common.InvalidArgument("time window, node and bin count cannot override a precomputed rate matrix")
	}
	if r.Source != nil {
		if _, ok := rateKinds[r.Rate]; !ok {
			return common.InvalidArgument("unknown rate kind %v", r.Rate)
		}
		if err := source.CheckKind(r.Source.Kind(), r.Rate); err != nil {
			return err
		}
		if r.Bins < 0 {
			return common.InvalidArgument("bin count %d must be positive", r.Bins)
		}
		if err := r.Window.Validate(); err != nil {
			return err
		}
	}

	if r.Smooth {
		if _, err := r.smoother(); err != nil {
			return err
		}
	}

	if r.Collect {
		return nil
	}
	if r.Surface == nil {
		return common.InvalidArgument("render mode needs a surface")
	}
	if err := r.XBounds.Validate("time axis"); err != nil {
		return err
	}
	if err := r.YBounds.Validate("value axis"); err != nil {
		return err
	}
	return r.Style.Validate()
}

var rateKinds = map[model.RateKind]struct{}{
	model.Speciation:         {},
	model.Extinction:         {},
	model.NetDiversification: {},
	model.TraitRate:          {},
}

func (r *Request) smoother() (*loess.Smoother, error) {
	s, err := loess.NewSmoother(r.Span)
	if err != nil {
		return nil, err
	}
	if err := s.SetDegree(r.Degree); err != nil {
		return nil, err
	}
	s.SetKernel(r.Kernel)
	return s, nil
}

// FromOptions copies file/env options into r. Source, Matrix and Surface are left to the caller.
func (r *Request) FromOptions(opts *config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	rate, err := model.ParseRateKind(opts.Rate)
	if err != nil {
		return err
	}
	central, ok := model.ParseCentralMode(opts.Central)
	if !ok {
		return common.InvalidArgument("unknown central tendency %q", opts.Central)
	}
	kernel, ok := loess.KernelByName(opts.Kernel)
	if !ok {
		return common.InvalidArgument("unknown smoothing kernel %q", opts.Kernel)
	}

	r.Rate = rate
	r.Central = central
	r.Levels = opts.Levels
	r.Bins = opts.Bins
	r.Smooth = opts.Smooth
	r.Span = opts.Span
	r.Degree = opts.Degree
	r.Kernel = kernel
	r.Collect = opts.Collect
	r.Overlay = opts.Overlay

	r.Window = nil
	if opts.Window != nil {
		r.Window = &source.TimeWindow{Start: opts.Window.Start, End: opts.Window.End}
	}
	r.Node = nil
	if opts.Node != nil {
		mode, err := source.ParseInclusionMode(opts.Node.Mode)
		if err != nil {
			return err
		}
		r.Node = &source.NodeSelector{Node: opts.Node.Node, Mode: mode}
	}

	r.XBounds = boundsFromLimits(opts.XLim)
	r.YBounds = boundsFromLimits(opts.YLim)

	style := render.DefaultStyle()
	if style.BandColor, err = render.ParseColor(opts.BandColor); err != nil {
		return err
	}
	if style.CentralColor, err = render.ParseColor(opts.CentralColor); err != nil {
		return err
	}
	style.BandOpacity = opts.BandOpacity
	style.LineWidth = opts.LineWidth
	style.XTicks = opts.XTicks
	style.YTicks = opts.YTicks
	style.AxisLabels = opts.AxisLabels
	r.Style = style
	return nil
}

func boundsFromLimits(lim []float64) render.AxisBounds {
	if len(lim) != 2 {
		return render.AutoBounds()
	}
	return render.Explicit(lim[0], lim[1])
}
