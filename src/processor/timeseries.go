package processor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	ErrNotChronological = errors.New("series timestamps are not strictly increasing")
	ErrNoMonth          = errors.New("record has no month")
)

// Series 按时间严格递增的序列. NaN 表示该位置没有定义(例如滑动平均的前 k-1 个值).
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// NewSeries 复制输入并校验时间严格递增
func NewSeries(name string, times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("series %s: %d timestamps but %d values", name, len(times), len(values))
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return Series{}, fmt.Errorf("series %s at %s: %w", name, times[i].Format(dateKeyLayout), ErrNotChronological)
		}
	}
	return Series{
		Name:   name,
		Times:  append([]time.Time(nil), times...),
		Values: append([]float64(nil), values...),
	}, nil
}

func (s Series) Len() int { return len(s.Values) }

// Tail 保留最近 n 个点
func (s Series) Tail(n int) Series {
	if n < 0 || n >= len(s.Values) {
		return s.copy()
	}
	start := len(s.Values) - n
	return Series{
		Name:   s.Name,
		Times:  append([]time.Time(nil), s.Times[start:]...),
		Values: append([]float64(nil), s.Values[start:]...),
	}
}

// Defined 去掉 NaN 位置
func (s Series) Defined() Series {
	out := Series{Name: s.Name}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Times = append(out.Times, s.Times[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// Rename 返回改名后的副本
func (s Series) Rename(name string) Series {
	out := s.copy()
	out.Name = name
	return out
}

func (s Series) copy() Series {
	return Series{
		Name:   s.Name,
		Times:  append([]time.Time(nil), s.Times...),
		Values: append([]float64(nil), s.Values...),
	}
}

// MonthlyFrame 合成的月度序列: 同一时间索引上每个来源一列, 外加合计列
type MonthlyFrame struct {
	Times   []time.Time
	Columns map[Origin][]float64
	Total   []float64
}

// Series 取某个来源的序列, 未出现过的来源返回全 0
func (f *MonthlyFrame) Series(origin Origin) Series {
	values, ok := f.Columns[origin]
	if !ok {
		values = make([]float64, len(f.Times))
	}
	return Series{
		Name:   string(origin),
		Times:  append([]time.Time(nil), f.Times...),
		Values: append([]float64(nil), values...),
	}
}

// TotalSeries 各来源合计
func (f *MonthlyFrame) TotalSeries() Series {
	return Series{
		Name:   "TOTAL",
		Times:  append([]time.Time(nil), f.Times...),
		Values: append([]float64(nil), f.Total...),
	}
}

func (f *MonthlyFrame) Len() int { return len(f.Times) }

// Synthesize 由已按机场和类别筛选的月度记录生成按时间排序的序列.
//
// 每个年份按来源汇总12个月, 转置为以月份为行, (年, 月) 映射为当月1日,
// 拼接所有年份后显式按时间排序, 再去掉合计为 0 的月份.
// origins 中的来源即使没有数据也会以全 0 列出现.
func Synthesize(records []Record, origins []Origin) (*MonthlyFrame, error) {
	// 年份按出现顺序分片
	var years []int
	fragments := make(map[int][]Record)
	for _, r := range records {
		if r.Period.Month < 1 || r.Period.Month > 12 {
			return nil, fmt.Errorf("%s %s %s: %w", r.Airport, r.Period, r.MonthLabel, ErrNoMonth)
		}
		if _, ok := fragments[r.Period.Year]; !ok {
			years = append(years, r.Period.Year)
		}
		fragments[r.Period.Year] = append(fragments[r.Period.Year], r)
	}

	columns := make(map[Origin]struct{})
	for _, o := range origins {
		columns[o] = struct{}{}
	}

	type row struct {
		t      time.Time
		values map[Origin]float64
	}
	var rows []row

	for _, year := range years {
		// 按来源汇总: 每个来源一行, 12个月份列
		byOrigin := make(map[Origin]*[12]float64)
		for _, r := range fragments[year] {
			if byOrigin[r.Origin] == nil {
				byOrigin[r.Origin] = new([12]float64)
			}
			byOrigin[r.Origin][r.Period.Month-1] += r.Total
			columns[r.Origin] = struct{}{}
		}

		// 转置: 每个月份一行
		for m := 0; m < 12; m++ {
			values := make(map[Origin]float64, len(byOrigin))
			for origin, months := range byOrigin {
				values[origin] = months[m]
			}
			rows = append(rows, row{
				t:      time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC),
				values: values,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].t.Before(rows[j].t) })

	ordered := make([]Origin, 0, len(columns))
	for origin := range columns {
		ordered = append(ordered, origin)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	frame := &MonthlyFrame{Columns: make(map[Origin][]float64, len(ordered))}
	for _, origin := range ordered {
		frame.Columns[origin] = []float64{}
	}

	for _, r := range rows {
		var total float64
		for _, origin := range ordered {
			total += r.values[origin]
		}
		if total == 0 {
			continue
		}
		frame.Times = append(frame.Times, r.t)
		frame.Total = append(frame.Total, total)
		for _, origin := range ordered {
			frame.Columns[origin] = append(frame.Columns[origin], r.values[origin])
		}
	}

	return frame, nil
}

// Frame 转换为 DataFrame: DATE 列, 每个来源一列(按名称排序), 最后是 TOTAL
func (f *MonthlyFrame) Frame() dataframe.DataFrame {
	dates := make([]string, len(f.Times))
	for i, t := range f.Times {
		dates[i] = t.Format(dateKeyLayout)
	}

	origins := make([]Origin, 0, len(f.Columns))
	for origin := range f.Columns {
		origins = append(origins, origin)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })

	cols := []series.Series{series.New(dates, series.String, ByDate.String())}
	for _, origin := range origins {
		cols = append(cols, series.New(f.Columns[origin], series.Float, string(origin)))
	}
	cols = append(cols, series.New(f.Total, series.Float, "TOTAL"))
	return dataframe.New(cols...)
}
