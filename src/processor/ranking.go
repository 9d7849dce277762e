package processor

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
)

// InsideThreshold 比值超过该值时数字标签画在柱内
const InsideThreshold = 0.95

// InternationalMark 有国际流量的机场名称后缀
const InternationalMark = " 🌎"

// RankEntry 排行榜中的一个机场
type RankEntry struct {
	Name             string
	Domestic         float64
	International    float64
	Total            float64
	Ratio            float64 // log10(Total) / log10(最大值)
	Inside           bool
	HasInternational bool
}

// Ranking 按 Total 降序排列的前 N 个机场
type Ranking struct {
	Entries []RankEntry
	// LogFloor ⌊log10(最小值)⌋, 作为对数坐标轴的下限
	LogFloor float64
}

// Rank 由机场 × 来源的透视表生成排行榜. 合计为 0 的机场在取对数之前去掉;
// n <= 0 表示不截断.
func Rank(t *Table, normalizer *Normalizer, n int, threshold float64) Ranking {
	domestic := t.Column(string(Domestic))
	international := t.Column(string(International))
	totals := t.RowSums()

	var entries []RankEntry
	for i, airport := range t.Rows {
		if totals[i] == 0 {
			continue
		}
		name := normalizer.Canonical(airport)
		hasIntl := international[i] > 0
		if hasIntl {
			name += InternationalMark
		}
		entries = append(entries, RankEntry{
			Name:             name,
			Domestic:         domestic[i],
			International:    international[i],
			Total:            totals[i],
			HasInternational: hasIntl,
		})
	}
	if len(entries) == 0 {
		return Ranking{Entries: []RankEntry{}}
	}

	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = e.Total
	}
	maxLog := math.Log10(floats.Max(values))
	for i := range entries {
		// 只有一个机场或最大值为 1 时 log10(max) 为 0
		if maxLog == 0 {
			entries[i].Ratio = 1
		} else {
			entries[i].Ratio = math.Log10(entries[i].Total) / maxLog
		}
		entries[i].Inside = entries[i].Ratio > threshold
	}

	entries = sortEntries(entries)
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}

	last := entries[len(entries)-1].Total
	return Ranking{
		Entries:  entries,
		LogFloor: math.Floor(math.Log10(last)),
	}
}

// sortEntries 用 DataFrame.Arrange 按合计降序排列, 合计相同时保持原顺序
func sortEntries(entries []RankEntry) []RankEntry {
	index := make([]int, len(entries))
	totals := make([]float64, len(entries))
	for i, e := range entries {
		index[i] = i
		totals[i] = e.Total
	}

	df := dataframe.New(
		series.New(index, series.Int, "index"),
		series.New(totals, series.Float, "total"),
	).Arrange(dataframe.RevSort("total"))

	order, err := df.Col("index").Int()
	if err != nil {
		return entries
	}
	out := make([]RankEntry, len(order))
	for i, idx := range order {
		out[i] = entries[idx]
	}
	return out
}

// Names 按排名顺序的显示名称
func (r Ranking) Names() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Name
	}
	return out
}

func (r Ranking) Totals() []float64 {
	out := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Total
	}
	return out
}

// Frame 转换为 DataFrame, 用于导出
func (r Ranking) Frame() dataframe.DataFrame {
	n := len(r.Entries)
	names := make([]string, n)
	domestic := make([]float64, n)
	international := make([]float64, n)
	totals := make([]float64, n)
	for i, e := range r.Entries {
		names[i] = e.Name
		domestic[i] = e.Domestic
		international[i] = e.International
		totals[i] = e.Total
	}
	return dataframe.New(
		series.New(names, series.String, ByAirport.String()),
		series.New(domestic, series.Float, string(Domestic)),
		series.New(international, series.Float, string(International)),
		series.New(totals, series.Float, "TOTAL"),
	)
}
