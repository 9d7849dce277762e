package processor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"AirportStats/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"02/01/2006",
	"2006-01",
	time.RFC3339,
}

// FromFrame 按 schema 将 DataFrame 转换为 Record.
// 长格式每行一条记录; 宽格式每行展开为12条月份记录.
func FromFrame(df dataframe.DataFrame, schema config.Schema, classifier *Classifier) ([]Record, error) {
	switch schema.Layout {
	case config.LayoutLong:
		return fromLongFrame(df, schema, classifier)
	case config.LayoutWide:
		return fromWideFrame(df, schema, classifier)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownLayout, schema.Layout)
	}
}

func fromLongFrame(df dataframe.DataFrame, schema config.Schema, classifier *Classifier) ([]Record, error) {
	airports := df.Col(schema.Airport)
	dates := df.Col(schema.Date)
	categories := df.Col(schema.Category)
	origins := df.Col(schema.Origin)
	totals := df.Col(schema.Total)

	records := make([]Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		t, err := ParseDate(dates.Elem(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		total, err := ParseNumber(totals.Elem(i))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", i+1, schema.Total, err)
		}
		records = append(records, Record{
			Airport:  strings.TrimSpace(airports.Elem(i).String()),
			Period:   Period{Year: t.Year(), Month: int(t.Month())},
			Category: classifier.Category(categories.Elem(i).String()),
			Origin:   classifier.Origin(origins.Elem(i).String()),
			Total:    total,
		})
	}
	return records, nil
}

func fromWideFrame(df dataframe.DataFrame, schema config.Schema, classifier *Classifier) ([]Record, error) {
	airports := df.Col(schema.Airport)
	years := df.Col(schema.Year)
	categories := df.Col(schema.Category)
	origins := df.Col(schema.Origin)

	months := make([]series.Series, len(schema.Months))
	for m, name := range schema.Months {
		months[m] = df.Col(name)
	}

	records := make([]Record, 0, df.Nrow()*len(months))
	for i := 0; i < df.Nrow(); i++ {
		year, err := ParseYear(years.Elem(i))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", i+1, schema.Year, err)
		}

		airport := strings.TrimSpace(airports.Elem(i).String())
		category := classifier.Category(categories.Elem(i).String())
		origin := classifier.Origin(origins.Elem(i).String())

		for m, col := range months {
			total, err := ParseNumber(col.Elem(i))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, schema.Months[m], err)
			}
			records = append(records, Record{
				Airport:    airport,
				Period:     Period{Year: year, Month: m + 1},
				MonthLabel: schema.Months[m],
				Category:   category,
				Origin:     origin,
				Total:      total,
			})
		}
	}
	return records, nil
}

// ParseDate 尝试多种日期格式
func ParseDate(el series.Element) (time.Time, error) {
	str := strings.TrimSpace(el.String())
	for _, format := range dateFormats {
		if t, err := time.Parse(format, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", str)
}

// ParseYear 接受 "2023" 或 "2023.0"
func ParseYear(el series.Element) (int, error) {
	str := strings.TrimSpace(el.String())
	if y, err := strconv.Atoi(str); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", str)
	}
	return int(f), nil
}

// ParseNumber 空值或 NA 视为 0, 允许千位分隔符
func ParseNumber(el series.Element) (float64, error) {
	if el.IsNA() {
		return 0, nil
	}
	str := strings.TrimSpace(el.String())
	str = strings.ReplaceAll(str, ",", "")
	if str == "" || str == "-" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", el.String())
	}
	return f, nil
}
