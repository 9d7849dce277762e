package processor

// Predicates 等值筛选条件, 零值字段表示不限制
type Predicates struct {
	Airport  string
	Category Category
	Origin   Origin
	Years    []int
	NonZero  bool // 去掉 Total 为 0 的记录
}

// Filter 返回满足条件的新切片, 不修改输入. 没有匹配时返回空切片.
func Filter(records []Record, p Predicates) []Record {
	years := make(map[int]struct{}, len(p.Years))
	for _, y := range p.Years {
		years[y] = struct{}{}
	}

	out := make([]Record, 0)
	for _, r := range records {
		if p.Airport != "" && r.Airport != p.Airport {
			continue
		}
		if p.Category != "" && r.Category != p.Category {
			continue
		}
		if p.Origin != OriginNone && r.Origin != p.Origin {
			continue
		}
		if len(years) > 0 {
			if _, ok := years[r.Period.Year]; !ok {
				continue
			}
		}
		if p.NonZero && r.Total == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Airports 按首次出现的顺序返回不重复的机场名称
func Airports(records []Record) []string {
	seen := make(map[string]struct{})
	var airports []string
	for _, r := range records {
		if _, ok := seen[r.Airport]; ok {
			continue
		}
		seen[r.Airport] = struct{}{}
		airports = append(airports, r.Airport)
	}
	return airports
}
