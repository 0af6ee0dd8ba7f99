package quantile

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"gonum.org/v1/gonum/floats"
)

func scenarioMatrix() *model.RateMatrix {
	return &model.RateMatrix{
		Values: [][]float64{{1, 2, 3}, {3, 2, 1}, {2, 2, 2}},
		Times:  []float64{0, 1, 2},
	}
}

func TestType7(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{1, 4},
		{0.5, 2.5},
		{0.25, 1.75},
		{1.0 / 3, 2},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Type7(sorted, c.p), 1e-12, "p=%v", c.p)
	}
	assert.Equal(t, 7.0, Type7([]float64{7}, 0.3))
	assert.True(t, math.IsNaN(Type7(nil, 0.5)))
}

func TestEnvelopeScenario(t *testing.T) {
	curves, err := Envelope(context.Background(), scenarioMatrix(), []float64{0, 1})
	require.NoError(t, err)
	require.Len(t, curves, 2)
	assert.Equal(t, []float64{1, 2, 1}, curves[0].Points.Values())
	assert.Equal(t, []float64{3, 2, 3}, curves[1].Points.Values())
	assert.Equal(t, []float64{0, 1, 2}, curves[1].Points.Times())
}

func TestEnvelopeKeepsCallerOrder(t *testing.T) {
	curves, err := Envelope(context.Background(), scenarioMatrix(), []float64{1, 0.5, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, curves[0].Level)
	assert.Equal(t, 0.5, curves[1].Level)
	assert.Equal(t, []float64{2, 2, 2}, curves[1].Points.Values())
}

func TestEnvelopeWithinColumnRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := &model.RateMatrix{Times: make([]float64, 40)}
	for j := range m.Times {
		m.Times[j] = float64(j)
	}
	for i := 0; i < 25; i++ {
		row := make([]float64, len(m.Times))
		for j := range row {
			row[j] = rng.ExpFloat64()
		}
		m.Values = append(m.Values, row)
	}

	levels := []float64{0, 0.025, 0.1, 0.5, 0.9, 0.975, 1}
	curves, err := Envelope(context.Background(), m, levels)
	require.NoError(t, err)
	for _, curve := range curves {
		for j, point := range curve.Points {
			col := m.Column(j)
			assert.GreaterOrEqual(t, point.Value, floats.Min(col))
			assert.LessOrEqual(t, point.Value, floats.Max(col))
		}
	}
	// monotone in level
	for i := 1; i < len(curves); i++ {
		for j := range m.Times {
			assert.LessOrEqual(t, curves[i-1].Points[j].Value, curves[i].Points[j].Value)
		}
	}
}

func TestEnvelopeRejectsLevelBeforeMatrix(t *testing.T) {
	// a nil matrix would also be invalid, the level must be reported first
	_, err := Envelope(context.Background(), nil, []float64{0.5, 1.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorInvalidArgument))
	assert.Contains(t, err.Error(), "1.5")
}

func TestEnvelopeEmptyMatrix(t *testing.T) {
	_, err := Envelope(context.Background(), &model.RateMatrix{}, []float64{0.5})
	assert.True(t, errors.Is(err, common.ErrorInvalidArgument))
}

func TestEnvelopeNoLevels(t *testing.T) {
	curves, err := Envelope(context.Background(), scenarioMatrix(), nil)
	require.NoError(t, err)
	assert.Empty(t, curves)
}

func TestEnvelopeSingleSample(t *testing.T) {
	m := &model.RateMatrix{Values: [][]float64{{4, 5}}, Times: []float64{0, 1}}
	curves, err := Envelope(context.Background(), m, []float64{0.1, 0.9})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, curves[0].Points.Values())
	assert.Equal(t, []float64{4, 5}, curves[1].Points.Values())
}

func TestDefaultLevels(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 101)
	assert.Equal(t, 0.0, levels[0])
	assert.Equal(t, 0.5, levels[50])
	assert.Equal(t, 1.0, levels[100])
	assert.NoError(t, ValidateLevels(levels))
}
