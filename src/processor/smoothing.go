package processor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrInvalidWindow = errors.New("invalid rolling window")

// 常用窗口
const (
	QuarterlyWindow = 3
	AnnualWindow    = 12
)

// RollingMean 尾随滑动平均. 输出与输入等长, 前 window-1 个位置为 NaN;
// 需要去掉未定义值的调用方使用 Series.Defined().
// 窗口内含 NaN 的位置同样为 NaN.
func RollingMean(s Series, window int) (Series, error) {
	if window < 1 {
		return Series{}, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	if err := checkChronological(s); err != nil {
		return Series{}, err
	}

	out := s.copy()
	for i := range out.Values {
		if i < window-1 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = stat.Mean(s.Values[i-window+1:i+1], nil)
	}
	return out, nil
}

// RollingMeanFrame 对合成序列的每一列(含合计)做滑动平均
func RollingMeanFrame(f *MonthlyFrame, window int) (*MonthlyFrame, error) {
	out := &MonthlyFrame{
		Times:   append(f.Times[:0:0], f.Times...),
		Columns: make(map[Origin][]float64, len(f.Columns)),
	}

	for origin := range f.Columns {
		smoothed, err := RollingMean(f.Series(origin), window)
		if err != nil {
			return nil, fmt.Errorf("origin %s: %w", origin, err)
		}
		out.Columns[origin] = smoothed.Values
	}

	total, err := RollingMean(f.TotalSeries(), window)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	out.Total = total.Values
	return out, nil
}

// TailFrame 保留最近 n 个月
func TailFrame(f *MonthlyFrame, n int) *MonthlyFrame {
	start := 0
	if n >= 0 && n < len(f.Times) {
		start = len(f.Times) - n
	}
	out := &MonthlyFrame{
		Times:   append(f.Times[:0:0], f.Times[start:]...),
		Columns: make(map[Origin][]float64, len(f.Columns)),
		Total:   append(f.Total[:0:0], f.Total[start:]...),
	}
	for origin, values := range f.Columns {
		out.Columns[origin] = append(values[:0:0], values[start:]...)
	}
	return out
}

func checkChronological(s Series) error {
	if len(s.Times) != len(s.Values) {
		return fmt.Errorf("series %s: %d timestamps but %d values", s.Name, len(s.Times), len(s.Values))
	}
	for i := 1; i < len(s.Times); i++ {
		if !s.Times[i].After(s.Times[i-1]) {
			return fmt.Errorf("series %s: %w", s.Name, ErrNotChronological)
		}
	}
	return nil
}
