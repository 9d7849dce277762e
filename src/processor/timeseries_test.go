package processor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(year, m int) time.Time {
	return time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

func TestSynthesizeOrdersYearsChronologically(t *testing.T) {
	var records []Record
	// 2024 在 2023 之前出现
	for _, year := range []int{2024, 2023} {
		for m := 1; m <= 12; m++ {
			records = append(records, Record{
				Airport:  "ACAPULCO",
				Period:   Period{Year: year, Month: m},
				Category: Passengers,
				Origin:   Domestic,
				Total:    float64(year*100 + m),
			})
		}
	}

	frame, err := Synthesize(records, Origins)
	require.NoError(t, err)
	require.Equal(t, 24, frame.Len())

	assert.Equal(t, month(2023, 1), frame.Times[0])
	assert.Equal(t, month(2024, 12), frame.Times[23])
	for i := 1; i < frame.Len(); i++ {
		assert.True(t, frame.Times[i].After(frame.Times[i-1]))
	}
	assert.Equal(t, 202301.0, frame.Columns[Domestic][0])
	assert.Equal(t, frame.Columns[Domestic], frame.Total)
}

func TestSynthesizeDropsZeroTotals(t *testing.T) {
	var records []Record
	for m := 1; m <= 12; m++ {
		var total float64
		if m <= 6 {
			total = 100
		}
		records = append(records,
			Record{Airport: "TOLUCA", Period: Period{2024, m}, Origin: Domestic, Total: total},
			Record{Airport: "TOLUCA", Period: Period{2024, m}, Origin: International, Total: 0},
		)
	}

	frame, err := Synthesize(records, Origins)
	require.NoError(t, err)
	assert.Equal(t, 6, frame.Len())
	for _, v := range frame.Total {
		assert.NotZero(t, v)
	}
	assert.Equal(t, month(2024, 6), frame.Times[5])
}

func TestSynthesizeMissingInternational(t *testing.T) {
	var records []Record
	for m := 1; m <= 12; m++ {
		records = append(records, Record{Airport: "CAMPECHE", Period: Period{2023, m}, Origin: Domestic, Total: 10})
	}

	frame, err := Synthesize(records, Origins)
	require.NoError(t, err)

	domestic := frame.Series(Domestic)
	international := frame.Series(International)
	require.Equal(t, domestic.Len(), international.Len())
	assert.Equal(t, make([]float64, 12), international.Values)
	assert.Equal(t, domestic.Times, international.Times)
}

func TestSynthesizeSumsOriginsPerMonth(t *testing.T) {
	records := []Record{
		{Airport: "ACAPULCO", Period: Period{2023, 2}, Origin: Domestic, Total: 1},
		{Airport: "ACAPULCO", Period: Period{2023, 2}, Origin: Domestic, Total: 2},
		{Airport: "ACAPULCO", Period: Period{2023, 2}, Origin: International, Total: 4},
	}

	frame, err := Synthesize(records, Origins)
	require.NoError(t, err)
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, month(2023, 2), frame.Times[0])
	assert.Equal(t, []float64{3}, frame.Columns[Domestic])
	assert.Equal(t, []float64{4}, frame.Columns[International])
	assert.Equal(t, []float64{7}, frame.Total)
}

func TestSynthesizeNoMonth(t *testing.T) {
	_, err := Synthesize([]Record{{Airport: "ACAPULCO", Period: Period{Year: 2023}, Total: 1}}, Origins)
	assert.ErrorIs(t, err, ErrNoMonth)
}

func TestSynthesizeEmpty(t *testing.T) {
	frame, err := Synthesize(nil, Origins)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Len())
	assert.Equal(t, 0, frame.Series(International).Len())
}

func TestNewSeriesRejectsUnorderedTimes(t *testing.T) {
	_, err := NewSeries("x", []time.Time{month(2024, 2), month(2024, 1)}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrNotChronological)

	_, err = NewSeries("x", []time.Time{month(2024, 1), month(2024, 1)}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrNotChronological)

	_, err = NewSeries("x", []time.Time{month(2024, 1)}, []float64{1, 2})
	assert.Error(t, err)
}

func monthlySeries(t *testing.T, values []float64) Series {
	t.Helper()
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = month(2015, 1).AddDate(0, i, 0)
	}
	s, err := NewSeries("test", times, values)
	require.NoError(t, err)
	return s
}

func TestRollingMean(t *testing.T) {
	s := monthlySeries(t, []float64{1, 2, 3, 4, 5})

	got, err := RollingMean(s, QuarterlyWindow)
	require.NoError(t, err)
	require.Equal(t, s.Len(), got.Len())
	assert.True(t, math.IsNaN(got.Values[0]))
	assert.True(t, math.IsNaN(got.Values[1]))
	assert.Equal(t, []float64{2, 3, 4}, got.Values[2:])
	assert.Equal(t, s.Times, got.Times)
	assert.Equal(t, 1.0, s.Values[0], "input must not change")
}

func TestRollingMeanDefinedCount(t *testing.T) {
	values := []float64{4, 8, 15, 16, 23, 42, 4, 8}
	s := monthlySeries(t, values)

	for _, k := range []int{1, 2, 3, 8, 9, 12} {
		got, err := RollingMean(s, k)
		require.NoError(t, err)
		assert.Equal(t, max(0, len(values)-k+1), got.Defined().Len(), "window %d", k)
	}
}

func TestRollingMeanInvalidWindow(t *testing.T) {
	_, err := RollingMean(monthlySeries(t, []float64{1}), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRollingMeanFrameAndTail(t *testing.T) {
	var records []Record
	for m := 1; m <= 12; m++ {
		records = append(records,
			Record{Airport: "ACAPULCO", Period: Period{2024, m}, Origin: Domestic, Total: float64(m)},
			Record{Airport: "ACAPULCO", Period: Period{2024, m}, Origin: International, Total: 1},
		)
	}
	frame, err := Synthesize(records, Origins)
	require.NoError(t, err)

	smoothed, err := RollingMeanFrame(frame, QuarterlyWindow)
	require.NoError(t, err)
	assert.Equal(t, 2.0, smoothed.Columns[Domestic][2])
	assert.Equal(t, 1.0, smoothed.Columns[International][2])
	assert.Equal(t, 3.0, smoothed.Total[2])
	assert.Equal(t, 10, smoothed.TotalSeries().Defined().Len())

	tail := TailFrame(smoothed, 4)
	assert.Equal(t, 4, tail.Len())
	assert.Equal(t, month(2024, 9), tail.Times[0])
	assert.Equal(t, []float64{8, 9, 10, 11}, tail.Columns[Domestic])

	assert.Equal(t, 12, TailFrame(smoothed, 120).Len())
}

func TestSeriesTail(t *testing.T) {
	s := monthlySeries(t, []float64{1, 2, 3, 4})

	assert.Equal(t, []float64{3, 4}, s.Tail(2).Values)
	assert.Equal(t, 4, s.Tail(96).Len())
	assert.Equal(t, "renamed", s.Rename("renamed").Name)
	assert.Equal(t, "test", s.Name)
}
