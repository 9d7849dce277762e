package processor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSTLOptions(t *testing.T) {
	opts := DefaultSTLOptions(MonthlyPeriod)

	assert.Equal(t, 12, opts.Period)
	assert.Equal(t, 7, opts.Seasonal)
	assert.Equal(t, 23, opts.Trend)
	assert.Equal(t, 13, opts.LowPass)
	assert.Equal(t, 2, opts.Inner)
	assert.Zero(t, opts.Outer)
}

func TestSTLTrendTooShort(t *testing.T) {
	s := monthlySeries(t, make([]float64, 2*MonthlyPeriod-1))

	_, err := STLTrend(s, MonthlyPeriod)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeriesTooShort)
}

func TestSTLTrendLinear(t *testing.T) {
	values := make([]float64, 48)
	for i := range values {
		values[i] = 10 + 2*float64(i)
	}
	s := monthlySeries(t, values)

	trend, err := STLTrend(s, MonthlyPeriod)
	require.NoError(t, err)
	require.Equal(t, s.Len(), trend.Len())
	assert.Equal(t, s.Times, trend.Times)
	assert.InDeltaSlice(t, values, trend.Values, 1e-6)
}

func TestSTLSeparatesSeasonality(t *testing.T) {
	n := 60
	linear := make([]float64, n)
	values := make([]float64, n)
	seasonal := make([]float64, n)
	for i := range values {
		linear[i] = 1000 + 5*float64(i)
		seasonal[i] = 100 * math.Sin(2*math.Pi*float64(i)/MonthlyPeriod)
		values[i] = linear[i] + seasonal[i]
	}
	s := monthlySeries(t, values)

	d, err := STL(s, DefaultSTLOptions(MonthlyPeriod))
	require.NoError(t, err)

	assert.InDeltaSlice(t, linear, d.Trend.Values, 1e-6)
	assert.InDeltaSlice(t, seasonal, d.Seasonal.Values, 1e-6)
	for i := range values {
		assert.InDelta(t, values[i], d.Trend.Values[i]+d.Seasonal.Values[i]+d.Residual.Values[i], 1e-9)
	}
}

func TestRobustSTLComponentsAddUp(t *testing.T) {
	n := 36
	values := make([]float64, n)
	for i := range values {
		values[i] = 50 + float64(i%MonthlyPeriod)*3 + float64(i)
	}
	values[17] += 400 // 异常值

	d, err := STL(monthlySeries(t, values), RobustSTLOptions(MonthlyPeriod))
	require.NoError(t, err)
	for i := range values {
		assert.False(t, math.IsNaN(d.Trend.Values[i]))
		assert.InDelta(t, values[i], d.Trend.Values[i]+d.Seasonal.Values[i]+d.Residual.Values[i], 1e-9)
	}
}

func TestSTLRejectsUndefinedValues(t *testing.T) {
	values := make([]float64, 24)
	values[3] = math.NaN()

	_, err := STLTrend(monthlySeries(t, values), MonthlyPeriod)
	assert.Error(t, err)
}

func TestSTLInvalidOptions(t *testing.T) {
	s := monthlySeries(t, make([]float64, 24))

	opts := DefaultSTLOptions(MonthlyPeriod)
	opts.Trend = 22
	_, err := STL(s, opts)
	assert.Error(t, err)

	_, err = STLTrend(s, 1)
	assert.Error(t, err)
}
