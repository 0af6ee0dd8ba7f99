package band

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/quantile"
)

func curve(level float64, values ...float64) model.QuantileCurve {
	points := make(model.Curve, len(values))
	for i, v := range values {
		points[i] = model.Point{Time: float64(i), Value: v}
	}
	return model.QuantileCurve{Level: level, Points: points}
}

func TestAssembleScenario(t *testing.T) {
	m := &model.RateMatrix{
		Values: [][]float64{{1, 2, 3}, {3, 2, 1}, {2, 2, 2}},
		Times:  []float64{0, 1, 2},
	}
	curves, err := quantile.Envelope(context.Background(), m, []float64{0, 1})
	require.NoError(t, err)

	bands := Assemble(curves)
	require.Len(t, bands, 1)
	assert.Equal(t, model.Curve{
		{Time: 0, Value: 1}, {Time: 1, Value: 2}, {Time: 2, Value: 1},
		{Time: 2, Value: 3}, {Time: 1, Value: 2}, {Time: 0, Value: 3},
	}, bands[0].Points)
	assert.Equal(t, 0.0, bands[0].Lower)
	assert.Equal(t, 1.0, bands[0].Upper)
}

func TestAssemblePairsSymmetrically(t *testing.T) {
	// unsorted input, odd count
	curves := []model.QuantileCurve{
		curve(0.975, 9, 9),
		curve(0.5, 5, 5),
		curve(0.025, 1, 1),
		curve(0.75, 7, 7),
		curve(0.25, 3, 3),
	}
	bands := Assemble(curves)
	require.Len(t, bands, 2)
	assert.Equal(t, 0.025, bands[0].Lower)
	assert.Equal(t, 0.975, bands[0].Upper)
	assert.Equal(t, 0.25, bands[1].Lower)
	assert.Equal(t, 0.75, bands[1].Upper)
	// the input slice order is left alone
	assert.Equal(t, 0.975, curves[0].Level)
}

func TestAssembleLowBelowHigh(t *testing.T) {
	m := &model.RateMatrix{
		Values: [][]float64{{0.1, 0.4, 0.2, 0.9}, {0.3, 0.2, 0.8, 0.1}, {0.5, 0.6, 0.1, 0.4}, {0.2, 0.1, 0.3, 0.6}},
		Times:  []float64{0, 0.5, 1, 1.5},
	}
	curves, err := quantile.Envelope(context.Background(), m, []float64{0.025, 0.975})
	require.NoError(t, err)
	bands := Assemble(curves)
	require.Len(t, bands, 1)

	lower, upper := Split(bands[0])
	require.Len(t, lower, 4)
	require.Len(t, upper, 4)
	for i := range lower {
		assert.Equal(t, lower[i].Time, upper[i].Time)
		assert.LessOrEqual(t, lower[i].Value, upper[i].Value)
	}
}

func TestAssembleNoBands(t *testing.T) {
	bands := Assemble(nil)
	assert.NotNil(t, bands)
	assert.Empty(t, bands)

	bands = Assemble([]model.QuantileCurve{curve(0.5, 1, 2)})
	assert.NotNil(t, bands)
	assert.Empty(t, bands)
}

func TestSplitRoundTrip(t *testing.T) {
	b := Polygon(curve(0.1, 1, 2, 3), curve(0.9, 4, 5, 6))
	lower, upper := Split(b)
	assert.Equal(t, []float64{1, 2, 3}, lower.Values())
	assert.Equal(t, []float64{4, 5, 6}, upper.Values())
	assert.Equal(t, []float64{0, 1, 2}, upper.Times())
}
