package processor

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Dimension 透视表的行或列维度
type Dimension int

const (
	ByAirport Dimension = iota
	ByYear
	ByMonth
	ByDate
	ByOrigin
	ByCategory
)

// UnspecifiedOrigin 没有来源的记录在透视表中的列名
const UnspecifiedOrigin = "UNSPECIFIED"

const dateKeyLayout = "2006-01-02"

func (d Dimension) String() string {
	switch d {
	case ByAirport:
		return "AIRPORT"
	case ByYear:
		return "YEAR"
	case ByMonth:
		return "MONTH"
	case ByDate:
		return "DATE"
	case ByOrigin:
		return "ORIGIN"
	case ByCategory:
		return "CATEGORY"
	default:
		return "UNKNOWN"
	}
}

// Key 记录在该维度上的取值
func (d Dimension) Key(r Record) string {
	switch d {
	case ByAirport:
		return r.Airport
	case ByYear:
		return strconv.Itoa(r.Period.Year)
	case ByMonth:
		return strconv.Itoa(r.Period.Month)
	case ByDate:
		return r.Period.Time().Format(dateKeyLayout)
	case ByOrigin:
		if r.Origin == OriginNone {
			return UnspecifiedOrigin
		}
		return string(r.Origin)
	case ByCategory:
		return string(r.Category)
	default:
		return ""
	}
}

// less 年份与月份按数值排序, 其余按字典序(日期键的字典序即时间顺序)
func (d Dimension) less(a, b string) bool {
	if d == ByYear || d == ByMonth {
		x, errX := strconv.Atoi(a)
		y, errY := strconv.Atoi(b)
		if errX == nil && errY == nil {
			return x < y
		}
	}
	return a < b
}

// PivotSpec 透视参数. 值字段固定为 Total, 聚合方式固定为求和, 缺失填 0.
// RowDomain / ColDomain 中的键即使没有数据也会出现在结果中.
type PivotSpec struct {
	Rows      Dimension
	Cols      Dimension
	RowDomain []string
	ColDomain []string
}

// Table 透视结果. 行列按维度排序, 每个单元格都有值.
type Table struct {
	RowDim Dimension
	ColDim Dimension
	Rows   []string
	Cols   []string
	values [][]float64
}

// Pivot 按 spec 汇总记录
func Pivot(records []Record, spec PivotSpec) *Table {
	cells := make(map[string]map[string]float64)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})

	for _, k := range spec.RowDomain {
		rowSet[k] = struct{}{}
	}
	for _, k := range spec.ColDomain {
		colSet[k] = struct{}{}
	}

	for _, r := range records {
		rk, ck := spec.Rows.Key(r), spec.Cols.Key(r)
		rowSet[rk] = struct{}{}
		colSet[ck] = struct{}{}
		if cells[rk] == nil {
			cells[rk] = make(map[string]float64)
		}
		cells[rk][ck] += r.Total
	}

	t := &Table{
		RowDim: spec.Rows,
		ColDim: spec.Cols,
		Rows:   sortedKeys(rowSet, spec.Rows),
		Cols:   sortedKeys(colSet, spec.Cols),
	}
	t.values = make([][]float64, len(t.Rows))
	for i, rk := range t.Rows {
		t.values[i] = make([]float64, len(t.Cols))
		for j, ck := range t.Cols {
			t.values[i][j] = cells[rk][ck]
		}
	}
	return t
}

func sortedKeys(set map[string]struct{}, dim Dimension) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return dim.less(keys[i], keys[j]) })
	return keys
}

func (t *Table) Nrow() int { return len(t.Rows) }
func (t *Table) Ncol() int { return len(t.Cols) }

func (t *Table) rowIndex(key string) int {
	for i, k := range t.Rows {
		if k == key {
			return i
		}
	}
	return -1
}

func (t *Table) colIndex(key string) int {
	for j, k := range t.Cols {
		if k == key {
			return j
		}
	}
	return -1
}

// Value 不存在的行列返回 0
func (t *Table) Value(row, col string) float64 {
	i, j := t.rowIndex(row), t.colIndex(col)
	if i < 0 || j < 0 {
		return 0
	}
	return t.values[i][j]
}

// At 按位置取值
func (t *Table) At(i, j int) float64 { return t.values[i][j] }

// Column 返回列的副本, 不存在的列返回全 0
func (t *Table) Column(col string) []float64 {
	out := make([]float64, len(t.Rows))
	j := t.colIndex(col)
	if j < 0 {
		return out
	}
	for i := range t.Rows {
		out[i] = t.values[i][j]
	}
	return out
}

func (t *Table) HasColumn(col string) bool { return t.colIndex(col) >= 0 }

func (t *Table) ColumnSum(col string) float64 {
	var sum float64
	for _, v := range t.Column(col) {
		sum += v
	}
	return sum
}

// RowSums 每行跨列的合计
func (t *Table) RowSums() []float64 {
	out := make([]float64, len(t.Rows))
	for i, row := range t.values {
		for _, v := range row {
			out[i] += v
		}
	}
	return out
}

func (t *Table) Sum() float64 {
	var sum float64
	for _, v := range t.RowSums() {
		sum += v
	}
	return sum
}

// RelabelRows 返回行键被替换后的新表, 行顺序不变
func (t *Table) RelabelRows(fn func(string) string) *Table {
	out := t.clone()
	for i, k := range out.Rows {
		out.Rows[i] = fn(k)
	}
	return out
}

func (t *Table) clone() *Table {
	out := &Table{
		RowDim: t.RowDim,
		ColDim: t.ColDim,
		Rows:   append([]string(nil), t.Rows...),
		Cols:   append([]string(nil), t.Cols...),
		values: make([][]float64, len(t.values)),
	}
	for i, row := range t.values {
		out.values[i] = append([]float64(nil), row...)
	}
	return out
}

// Series 将按日期索引的表的一列转换为时间序列
func (t *Table) Series(col string) (Series, error) {
	if t.RowDim != ByDate {
		return Series{}, fmt.Errorf("table rows are %s, not %s", t.RowDim, ByDate)
	}

	times := make([]time.Time, len(t.Rows))
	for i, k := range t.Rows {
		ts, err := time.Parse(dateKeyLayout, k)
		if err != nil {
			return Series{}, fmt.Errorf("row key %q: %w", k, err)
		}
		times[i] = ts
	}
	return NewSeries(col, times, t.Column(col))
}

// Frame 转换为 DataFrame, 第一列为行键
func (t *Table) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(t.Cols)+1)
	cols = append(cols, series.New(t.Rows, series.String, t.RowDim.String()))
	for _, c := range t.Cols {
		cols = append(cols, series.New(t.Column(c), series.Float, c))
	}
	return dataframe.New(cols...)
}

// YearKeys 年份列的键
func YearKeys(years ...int) []string {
	keys := make([]string, len(years))
	for i, y := range years {
		keys[i] = strconv.Itoa(y)
	}
	return keys
}

// MonthKeys 1..12
func MonthKeys() []string {
	keys := make([]string, 12)
	for i := range keys {
		keys[i] = strconv.Itoa(i + 1)
	}
	return keys
}

func OriginKeys(origins ...Origin) []string {
	keys := make([]string, len(origins))
	for i, o := range origins {
		keys[i] = string(o)
	}
	return keys
}
