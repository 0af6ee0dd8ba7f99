package render

import (
	"context"
	"io"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
)

type DrawOptions struct {
	XBounds AxisBounds
	YBounds AxisBounds
	// Overlay draws onto the surface's existing window and skips the frame.
	Overlay bool
}

// Draw paints the frame (unless overlaying), every band from the first pair to
// the last, and the central curve on top.
func Draw(ctx context.Context, surface Surface, a Artifacts, style Style, opts DrawOptions) error {
	logger := utils.GetLogger(ctx)

	if surface == nil {
		return common.InvalidArgument("render mode needs a surface")
	}
	if err := style.Validate(); err != nil {
		return err
	}

	if !opts.Overlay {
		w, err := ResolveWindow(a, opts.XBounds, opts.YBounds)
		if err != nil {
			logger.Error("resolve window failed", zap.Error(err))
			return err
		}
		if err := drawFrame(surface, w, a.Reference, style); err != nil {
			logger.Error("draw frame failed", zap.Error(err))
			return err
		}
	}

	fill := style.bandFill()
	for i, b := range a.Bands {
		if err := surface.FillPolygon(b.Points, fill); err != nil {
			logger.Error("fill band failed", zap.Error(err), zap.Int("band", i))
			return err
		}
	}
	if err := surface.StrokePolyline(a.Central, style.CentralColor, style.LineWidth); err != nil {
		logger.Error("stroke central curve failed", zap.Error(err))
		return err
	}

	logger.Info("rate through time drawn", zap.Int("bands", len(a.Bands)),
		zap.Int("centralPoints", len(a.Central)), zap.Bool("overlay", opts.Overlay))
	return nil
}

func drawFrame(surface Surface, w Window, ref float64, style Style) error {
	if err := surface.Clear(); err != nil {
		return err
	}
	if err := surface.SetWindow(w); err != nil {
		return err
	}
	if err := surface.DrawAxis(Bottom, TimeTicks(w.XMin, w.XMax, style.XTicks, ref)); err != nil {
		return err
	}
	if err := surface.DrawAxis(Left, Ticks(w.YMin, w.YMax, style.YTicks)); err != nil {
		return err
	}
	if !style.AxisLabels {
		return nil
	}
	if style.XLabel != "" {
		if err := surface.DrawText(Bottom, style.XLabel); err != nil {
			return err
		}
	}
	if style.YLabel != "" {
		if err := surface.DrawText(Left, style.YLabel); err != nil {
			return err
		}
	}
	return nil
}

// WithChartSurface creates a surface, hands it to fn and writes it to out once fn succeeds.
func WithChartSurface(format Format, width, height int, out io.Writer, fn func(Surface) error) error {
	surface, err := NewChartSurface(format, width, height)
	if err != nil {
		return err
	}
	if err := fn(surface); err != nil {
		return err
	}
	return surface.Save(out)
}
