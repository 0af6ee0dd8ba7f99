package pipeline

import (
	"context"
	"fmt"

	"github.com/uyouii/ratebands/band"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/quantile"
	"github.com/uyouii/ratebands/render"
	"github.com/uyouii/ratebands/timeaxis"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run validates req, builds the quantile bands and the central curve, and then
// either returns them (collect mode) or draws them on req.Surface, flipped onto
// the plotting axis. The result is returned in both modes and always holds
// times before present.
func Run(ctx context.Context, req *Request) (res *model.Result, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("rate through time recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("rate through time panic: %v", r)
		}
	}()

	if err := req.Validate(); err != nil {
		logger.Error("invalid rate through time request", zap.Error(err))
		return nil, err
	}

	m, err := req.matrix(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("rate matrix ready", zap.Stringer("rate", req.Rate), zap.Int("samples", m.Samples()),
		zap.Int("bins", m.Bins()))

	bands, central, err := summarize(ctx, req, m)
	if err != nil {
		return nil, err
	}

	res = &model.Result{
		Bands:   bands,
		Central: central,
		Times:   append([]float64(nil), m.Times...),
	}
	if req.Collect {
		logger.Info("rate through time collected", zap.String("result", res.DebugString()))
		return res, nil
	}

	ref := timeaxis.Reference(m.Times)
	artifacts := render.Artifacts{
		Bands:     timeaxis.ApplyBands(bands, ref),
		Central:   timeaxis.ApplyCurve(central, ref),
		Reference: ref,
	}
	style := req.Style
	if style.YLabel == "" {
		style.YLabel = req.Rate.Label()
	}
	err = render.Draw(ctx, req.Surface, artifacts, style,
		render.DrawOptions{XBounds: req.XBounds, YBounds: req.YBounds, Overlay: req.Overlay})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Request) matrix(ctx context.Context) (*model.RateMatrix, error) {
	if r.Matrix != nil {
		if err := r.Matrix.Validate(); err != nil {
			return nil, err
		}
		return r.Matrix, nil
	}
	return r.Source.Matrix(ctx, r.Rate, r.Window, r.Node, r.bins())
}

// summarize runs the envelope and the central curve side by side and smooths both when asked.
func summarize(ctx context.Context, req *Request, m *model.RateMatrix) ([]model.BandPolygon, model.Curve, error) {
	logger := utils.GetLogger(ctx)

	var bands []model.BandPolygon
	var central model.Curve

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		curves, err := quantile.Envelope(gctx, m, req.levels())
		if err != nil {
			return err
		}
		bands = band.Assemble(curves)
		return nil
	})
	g.Go(func() error {
		curve, err := quantile.CentralTendency(gctx, m, req.Central)
		central = curve
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("summarize rate matrix failed", zap.Error(err))
		return nil, nil, err
	}

	if !req.Smooth {
		return bands, central, nil
	}
	smoother, err := req.smoother()
	if err != nil {
		return nil, nil, err
	}
	if bands, err = smoother.SmoothBands(ctx, bands); err != nil {
		return nil, nil, err
	}
	if central, err = smoother.SmoothCurve(central); err != nil {
		return nil, nil, err
	}
	logger.Debug("bands smoothed", zap.Int("bands", len(bands)), zap.Float64("span", smoother.Span()))
	return bands, central, nil
}
