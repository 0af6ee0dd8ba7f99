package quantile

import (
	"context"
	"runtime"
	"sort"

	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Envelope computes one curve per level, in the caller's level order. Entry j of
// curve i is the type 7 quantile of column j of m at levels[i].
// Levels are checked before m is read.
func Envelope(ctx context.Context, m *model.RateMatrix, levels []float64) ([]model.QuantileCurve, error) {
	logger := utils.GetLogger(ctx)

	if err := ValidateLevels(levels); err != nil {
		logger.Error("invalid quantile levels", zap.Error(err))
		return nil, err
	}
	if err := m.Validate(); err != nil {
		logger.Error("invalid rate matrix", zap.Error(err))
		return nil, err
	}

	bins := m.Bins()
	res := make([]model.QuantileCurve, len(levels))
	for i, p := range levels {
		res[i] = model.QuantileCurve{Level: p, Points: make(model.Curve, bins)}
	}
	if len(levels) == 0 {
		return res, nil
	}

	err := forEachColumn(ctx, bins, func(j int) error {
		col := m.Column(j)
		sort.Float64s(col)
		for i, p := range levels {
			res[i].Points[j] = model.Point{Time: m.Times[j], Value: Type7(col, p)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("quantile envelope done", zap.Int("levels", len(levels)), zap.Int("bins", bins),
		zap.Int("samples", m.Samples()))
	return res, nil
}

// forEachColumn runs fn for every column index, at most GOMAXPROCS at a time.
// fn must only write state owned by its column.
func forEachColumn(ctx context.Context, bins int, fn func(j int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for j := 0; j < bins; j++ {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(j)
		})
	}
	return g.Wait()
}
