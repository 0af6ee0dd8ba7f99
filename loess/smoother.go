package loess

import (
	"context"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SmoothCurve fits the whole curve at once, times are kept.
func (s *Smoother) SmoothCurve(curve model.Curve) (model.Curve, error) {
	values, err := s.Smooth(curve.Times(), curve.Values())
	if err != nil {
		return nil, err
	}
	res := make(model.Curve, len(curve))
	for i := range curve {
		res[i] = model.Point{Time: curve[i].Time, Value: values[i]}
	}
	return res, nil
}

// SmoothBand fits the outbound leg [0, half) and the return leg [half-1, n)
// separately so the lower and upper boundaries never mix. The legs share index
// half-1 as a support point; its output value comes from the outbound fit.
// A band over a single time bin has nothing to smooth and is returned as is.
func (s *Smoother) SmoothBand(ctx context.Context, b model.BandPolygon) (model.BandPolygon, error) {
	logger := utils.GetLogger(ctx)

	n := len(b.Points)
	res := model.BandPolygon{Lower: b.Lower, Upper: b.Upper, Points: b.Points.Clone()}
	if n%2 != 0 {
		return res, common.InvalidArgument("band polygon has odd point count %d", n)
	}
	half := n / 2
	if half < 2 {
		return res, nil
	}

	var outbound, back model.Curve
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		fit, err := s.SmoothCurve(b.Points[:half])
		outbound = fit
		return err
	})
	g.Go(func() error {
		fit, err := s.SmoothCurve(b.Points[half-1:])
		back = fit
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("band smoothing failed", zap.Error(err), zap.Float64("lower", b.Lower),
			zap.Float64("upper", b.Upper))
		return res, err
	}

	copy(res.Points[:half], outbound)
	copy(res.Points[half:], back[1:])
	return res, nil
}

func (s *Smoother) SmoothBands(ctx context.Context, bands []model.BandPolygon) ([]model.BandPolygon, error) {
	res := make([]model.BandPolygon, len(bands))
	for i, b := range bands {
		smoothed, err := s.SmoothBand(ctx, b)
		if err != nil {
			return nil, err
		}
		res[i] = smoothed
	}
	return res, nil
}
