// data.go
package processor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category 统计类别
type Category string

const (
	Operations Category = "OPERATIONS"
	Passengers Category = "PASSENGERS"
	Cargo      Category = "CARGO"
)

// Origin 流量来源
type Origin string

const (
	OriginNone    Origin = ""
	Domestic      Origin = "DOMESTIC"
	International Origin = "INTERNATIONAL"
)

// Origins 两种来源, 按输出顺序
var Origins = []Origin{Domestic, International}

// Period 年份与可选月份(Month 为 0 表示整年)
type Period struct {
	Year  int
	Month int
}

// Time 月份第一天, 整年记录返回该年1月1日
func (p Period) Time() time.Time {
	month := p.Month
	if month == 0 {
		month = 1
	}
	return time.Date(p.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) String() string {
	if p.Month == 0 {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Record 源数据中的一条统计
type Record struct {
	Airport    string
	Period     Period
	MonthLabel string // 宽格式中的月份列名, 例如 "ENE/JAN"
	Category   Category
	Origin     Origin
	Total      float64
}

// Classifier 将源文件中的原始文本映射为 Category 与 Origin
type Classifier struct {
	categories map[string]Category
	origins    map[string]Origin
}

// NewClassifier 参数来自 DataConfig.Categories 与 DataConfig.Origins
func NewClassifier(categories, origins map[string]string) *Classifier {
	c := &Classifier{
		categories: make(map[string]Category, len(categories)),
		origins:    make(map[string]Origin, len(origins)),
	}
	for raw, cat := range categories {
		c.categories[strings.ToUpper(raw)] = Category(strings.ToUpper(cat))
	}
	for raw, origin := range origins {
		c.origins[strings.ToUpper(raw)] = Origin(strings.ToUpper(origin))
	}
	return c
}

// Category 先精确匹配, 再匹配包含的最长键, 例如 "PASAJEROS/PASSENGERS".
// 无法识别时保留原始文本, 保证合计不丢失.
func (c *Classifier) Category(raw string) Category {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if v, ok := lookup(c.categories, key); ok {
		return v
	}
	return Category(key)
}

// Origin 无法识别或为空时返回 OriginNone
func (c *Classifier) Origin(raw string) Origin {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return OriginNone
	}
	if v, ok := lookup(c.origins, key); ok {
		return v
	}
	return Origin(key)
}

// lookup "INTERNACIONAL" 同时包含 "NACIONAL", 所以取最长的匹配键
func lookup[T any](table map[string]T, key string) (T, bool) {
	if v, ok := table[key]; ok {
		return v, true
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		if k != "" && strings.Contains(key, k) {
			return table[k], true
		}
	}
	var zero T
	return zero, false
}
