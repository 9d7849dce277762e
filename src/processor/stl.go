package processor

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrSeriesTooShort STL 至少需要两个完整周期
var ErrSeriesTooShort = errors.New("series too short for seasonal decomposition")

// MonthlyPeriod 月度数据的年周期
const MonthlyPeriod = 12

// STLOptions 季节-趋势分解参数. 平滑窗口必须为奇数.
type STLOptions struct {
	Period   int
	Seasonal int // 周期子序列平滑窗口
	Trend    int // 趋势平滑窗口
	LowPass  int // 低通滤波窗口
	Inner    int // 内循环次数
	Outer    int // 稳健性外循环次数, 0 表示不做稳健加权
}

// DefaultSTLOptions 非稳健分解的常用默认值: seasonal=7,
// trend 取大于 1.5*period/(1-1.5/seasonal) 的最小奇数, low pass 取大于 period 的最小奇数.
func DefaultSTLOptions(period int) STLOptions {
	seasonal := 7
	trend := int(math.Ceil(1.5 * float64(period) / (1 - 1.5/float64(seasonal))))
	return STLOptions{
		Period:   period,
		Seasonal: seasonal,
		Trend:    nextOdd(trend),
		LowPass:  nextOdd(period + 1),
		Inner:    2,
	}
}

// RobustSTLOptions 与 DefaultSTLOptions 相同, 但使用稳健加权
func RobustSTLOptions(period int) STLOptions {
	opts := DefaultSTLOptions(period)
	opts.Inner = 1
	opts.Outer = 15
	return opts
}

func nextOdd(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

func (o STLOptions) validate() error {
	if o.Period < 2 {
		return fmt.Errorf("stl period must be at least 2, got %d", o.Period)
	}
	for name, v := range map[string]int{"seasonal": o.Seasonal, "trend": o.Trend, "low pass": o.LowPass} {
		if v < 3 || v%2 == 0 {
			return fmt.Errorf("stl %s window must be odd and >= 3, got %d", name, v)
		}
	}
	if o.Inner < 1 {
		return fmt.Errorf("stl inner iterations must be positive, got %d", o.Inner)
	}
	return nil
}

// Decomposition 分解结果, 三个分量与输入等长
type Decomposition struct {
	Trend    Series
	Seasonal Series
	Residual Series
}

// STLTrend 用默认参数分解并只返回趋势分量
func STLTrend(s Series, period int) (Series, error) {
	d, err := STL(s, DefaultSTLOptions(period))
	if err != nil {
		return Series{}, err
	}
	return d.Trend, nil
}

// STL 对严格递增的等间隔序列做季节-趋势分解(局部加权回归, 一次多项式).
func STL(s Series, opts STLOptions) (Decomposition, error) {
	if err := opts.validate(); err != nil {
		return Decomposition{}, err
	}
	if err := checkChronological(s); err != nil {
		return Decomposition{}, err
	}

	n := s.Len()
	if n < 2*opts.Period {
		return Decomposition{}, fmt.Errorf("%w: %s has %d points, need at least %d", ErrSeriesTooShort, s.Name, n, 2*opts.Period)
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Decomposition{}, fmt.Errorf("series %s: undefined value at %s", s.Name, s.Times[i].Format(dateKeyLayout))
		}
	}

	y := s.Values
	trend := make([]float64, n)
	season := make([]float64, n)
	var rw []float64

	for outer := 0; ; outer++ {
		for inner := 0; inner < opts.Inner; inner++ {
			trend, season = stlPass(y, trend, opts, rw)
		}
		if outer >= opts.Outer {
			break
		}
		rw = robustnessWeights(y, trend, season)
	}

	residual := make([]float64, n)
	floats.SubTo(residual, y, trend)
	floats.Sub(residual, season)

	return Decomposition{
		Trend:    Series{Name: s.Name + "_trend", Times: append(s.Times[:0:0], s.Times...), Values: trend},
		Seasonal: Series{Name: s.Name + "_seasonal", Times: append(s.Times[:0:0], s.Times...), Values: season},
		Residual: Series{Name: s.Name + "_resid", Times: append(s.Times[:0:0], s.Times...), Values: residual},
	}, nil
}

// stlPass 内循环一次: 去趋势, 周期子序列平滑, 低通滤波, 去季节, 趋势平滑
func stlPass(y, trend []float64, opts STLOptions, rw []float64) ([]float64, []float64) {
	n := len(y)
	p := opts.Period

	detrended := make([]float64, n)
	floats.SubTo(detrended, y, trend)

	cycle := subseriesSmooth(detrended, p, opts.Seasonal, rw)
	low := lowPass(cycle, p, opts.LowPass)

	season := make([]float64, n)
	floats.SubTo(season, cycle[p:p+n], low)

	deseasoned := make([]float64, n)
	floats.SubTo(deseasoned, y, season)

	return loess(deseasoned, opts.Trend, rw), season
}

// subseriesSmooth 对每个周期位置的子序列做平滑, 并向两端各外推一个点,
// 返回长度 n+2*period
func subseriesSmooth(y []float64, period, span int, rw []float64) []float64 {
	n := len(y)
	out := make([]float64, n+2*period)

	for j := 0; j < period; j++ {
		k := (n-j-1)/period + 1
		sub := make([]float64, k)
		var subRW []float64
		if rw != nil {
			subRW = make([]float64, k)
		}
		for i := 0; i < k; i++ {
			sub[i] = y[i*period+j]
			if rw != nil {
				subRW[i] = rw[i*period+j]
			}
		}

		smoothed := make([]float64, k+2)
		copy(smoothed[1:k+1], loess(sub, span, subRW))

		w := make([]float64, k)
		if v, ok := loessAt(sub, span, 0, 1, min(span, k), w, subRW); ok {
			smoothed[0] = v
		} else {
			smoothed[0] = smoothed[1]
		}
		if v, ok := loessAt(sub, span, float64(k+1), max(1, k-span+1), k, w, subRW); ok {
			smoothed[k+1] = v
		} else {
			smoothed[k+1] = smoothed[k]
		}

		for m := 0; m < k+2; m++ {
			out[m*period+j] = smoothed[m]
		}
	}
	return out
}

// lowPass 长度 period, period, 3 的三次移动平均, 再做一次局部回归
func lowPass(x []float64, period, span int) []float64 {
	ma := movingAverage(x, period)
	ma = movingAverage(ma, period)
	ma = movingAverage(ma, 3)
	return loess(ma, span, nil)
}

func movingAverage(x []float64, length int) []float64 {
	if length > len(x) {
		return nil
	}
	out := make([]float64, len(x)-length+1)
	for i := range out {
		out[i] = floats.Sum(x[i:i+length]) / float64(length)
	}
	return out
}

// loess 在每个位置 1..n 上做一次局部加权回归
func loess(y []float64, span int, rw []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		copy(out, y)
		return out
	}

	w := make([]float64, n)
	nleft, nright := 1, n
	if span < n {
		nright = span
	}
	half := (span + 1) / 2

	for i := 1; i <= n; i++ {
		if span < n && i > half && nright != n {
			nleft++
			nright++
		}
		if v, ok := loessAt(y, span, float64(i), nleft, nright, w, rw); ok {
			out[i-1] = v
		} else {
			out[i-1] = y[i-1]
		}
	}
	return out
}

// loessAt 用下标 [nleft, nright](从1开始) 内的点在 xs 处做三次方权重的一次回归
func loessAt(y []float64, span int, xs float64, nleft, nright int, w, rw []float64) (float64, bool) {
	n := len(y)
	rng := float64(n) - 1

	h := math.Max(xs-float64(nleft), float64(nright)-xs)
	if span > n {
		h += float64((span - n) / 2)
	}
	h9 := 0.999 * h
	h1 := 0.001 * h

	var a float64
	for j := nleft; j <= nright; j++ {
		w[j-1] = 0
		r := math.Abs(float64(j) - xs)
		if r > h9 {
			continue
		}
		if r <= h1 {
			w[j-1] = 1
		} else {
			w[j-1] = math.Pow(1-math.Pow(r/h, 3), 3)
		}
		if rw != nil {
			w[j-1] *= rw[j-1]
		}
		a += w[j-1]
	}
	if a <= 0 {
		return 0, false
	}

	for j := nleft; j <= nright; j++ {
		w[j-1] /= a
	}

	if h > 0 {
		var center float64
		for j := nleft; j <= nright; j++ {
			center += w[j-1] * float64(j)
		}
		b := xs - center
		var c float64
		for j := nleft; j <= nright; j++ {
			d := float64(j) - center
			c += w[j-1] * d * d
		}
		if math.Sqrt(c) > 0.001*rng {
			b /= c
			for j := nleft; j <= nright; j++ {
				w[j-1] *= b*(float64(j)-center) + 1
			}
		}
	}

	var ys float64
	for j := nleft; j <= nright; j++ {
		ys += w[j-1] * y[j-1]
	}
	return ys, true
}

// robustnessWeights 双平方权重, 尺度为 6 倍残差绝对值中位数
func robustnessWeights(y, trend, season []float64) []float64 {
	n := len(y)
	r := make([]float64, n)
	for i := range y {
		r[i] = math.Abs(y[i] - trend[i] - season[i])
	}

	sorted := append([]float64(nil), r...)
	sort.Float64s(sorted)
	mid := n / 2
	median := sorted[mid]
	if n%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	cmad := 6 * median
	c9 := 0.999 * cmad
	c1 := 0.001 * cmad

	rw := make([]float64, n)
	for i, v := range r {
		switch {
		case v <= c1:
			rw[i] = 1
		case v <= c9:
			u := v / cmad
			rw[i] = (1 - u*u) * (1 - u*u)
		default:
			rw[i] = 0
		}
	}
	return rw
}
