package report

import (
	"errors"
	"fmt"
	"strconv"

	"AirportStats/src/processor"
	"AirportStats/src/render"
)

// DefaultTopN 排行榜默认长度
const DefaultTopN = 40

type TopOptions struct {
	Year     int
	Category processor.Category
	N        int
}

// Top 某一年某类别流量最大的 N 个机场, 横向柱状图, 对数刻度
func (r *Reporter) Top(records []processor.Record, opts TopOptions) (Result, error) {
	if opts.Year == 0 {
		return Result{}, errors.New("top needs a year")
	}
	if opts.Category == "" {
		opts.Category = processor.Passengers
	}
	if opts.N <= 0 {
		opts.N = DefaultTopN
	}

	caption := r.caption(opts.Category)
	table := processor.Pivot(
		processor.Filter(records, processor.Predicates{Category: opts.Category, Years: []int{opts.Year}}),
		processor.PivotSpec{
			Rows:      processor.ByAirport,
			Cols:      processor.ByOrigin,
			ColDomain: processor.OriginKeys(processor.Origins...),
		},
	)
	ranking := processor.Rank(table, r.normalizer, opts.N, processor.InsideThreshold)
	r.logger.Info("生成排行榜", "year", opts.Year, "category", opts.Category, "airports", len(ranking.Entries))

	var res Result
	path := r.outputPath(caption.Label, strconv.Itoa(opts.Year))

	title := fmt.Sprintf("Los %d aeropuertos con mayor número de %s durante %d", len(ranking.Entries), caption.Label, opts.Year)
	if caption.Title != "" {
		title = fmt.Sprintf(caption.Title, len(ranking.Entries), opts.Year)
	}
	var notes []string
	if caption.Note != "" {
		notes = append(notes, "Notas:\n"+caption.Note)
	}

	err := r.draw(&res, path, func() error {
		return r.renderer.Rank(path, render.RankChart{
			Title:   title,
			XLabel:  "Total de registros anuales (escala logarítmica)",
			Ranking: ranking,
			Color:   caption.Color,
			Footer:  r.footer(notes...),
			Theme:   render.NightTheme,
		})
	})
	r.export(&res, ranking.Frame(), path, string(opts.Category))
	return res, err
}
