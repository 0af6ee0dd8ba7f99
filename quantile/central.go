package quantile

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
	gstat "gonum.org/v1/gonum/stat"
)

// CentralTendency returns the per bin mean or median across samples.
func CentralTendency(ctx context.Context, m *model.RateMatrix, mode model.CentralMode) (model.Curve, error) {
	logger := utils.GetLogger(ctx)

	if mode != model.MeanMode && mode != model.MedianMode {
		return nil, common.InvalidArgument("unknown central tendency mode %v", mode)
	}
	if err := m.Validate(); err != nil {
		logger.Error("invalid rate matrix", zap.Error(err))
		return nil, err
	}

	res := make(model.Curve, m.Bins())
	err := forEachColumn(ctx, m.Bins(), func(j int) error {
		col := m.Column(j)
		value := 0.0
		switch mode {
		case model.MedianMode:
			median, err := stats.Median(col)
			if err != nil {
				return err
			}
			value = median
		default:
			value = gstat.Mean(col, nil)
		}
		res[j] = model.Point{Time: m.Times[j], Value: value}
		return nil
	})
	if err != nil {
		logger.Error("central tendency failed", zap.Error(err), zap.Stringer("mode", mode))
		return nil, err
	}
	return res, nil
}
