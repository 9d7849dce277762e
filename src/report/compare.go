package report

import (
	"fmt"
	"strconv"

	"AirportStats/src/processor"
	"AirportStats/src/render"

	"gonum.org/v1/gonum/floats"
)

type CompareOptions struct {
	Airport  string
	Category processor.Category
	Years    [2]int
}

var yearColors = [2]string{"#E58606", "#52BCA3"}

// Compare 同一机场两个年份的逐月对比, 月份为行, 年份为列
func (r *Reporter) Compare(records []processor.Record, opts CompareOptions) (Result, error) {
	if opts.Category == "" {
		opts.Category = processor.Passengers
	}
	if opts.Years[0] == 0 || opts.Years[1] == 0 || opts.Years[0] == opts.Years[1] {
		return Result{}, fmt.Errorf("compare needs two different years, got %v", opts.Years)
	}

	airport, err := r.pickAirport(records, opts.Airport)
	if err != nil {
		return Result{}, err
	}
	res := Result{Airport: r.normalizer.Canonical(airport)}
	caption := r.caption(opts.Category)

	filtered := processor.Filter(records, processor.Predicates{
		Airport:  airport,
		Category: opts.Category,
		Years:    opts.Years[:],
	})
	table := processor.Pivot(filtered, processor.PivotSpec{
		Rows:      processor.ByMonth,
		Cols:      processor.ByYear,
		RowDomain: processor.MonthKeys(),
		ColDomain: processor.YearKeys(opts.Years[0], opts.Years[1]),
	}).RelabelRows(processor.MonthLabeler(r.dcfg.MonthNames))

	groups := make([]render.BarGroup, len(opts.Years))
	var peak float64
	for i, year := range opts.Years {
		key := strconv.Itoa(year)
		values := table.Column(key)
		texts := make([]string, len(values))
		for j, v := range values {
			texts[j] = processor.FormatCompact(v)
		}
		groups[i] = render.BarGroup{
			Label:  fmt.Sprintf("%d (total: %s)", year, processor.FormatThousands(table.ColumnSum(key))),
			Values: values,
			Texts:  texts,
			Color:  yearColors[i],
		}
		if len(values) > 0 {
			peak = max(peak, floats.Max(values))
		}
	}

	path := r.outputPath("comparacion", caption.Label, airport)
	err = r.draw(&res, path, func() error {
		return r.renderer.Bars(path, render.BarChart{
			Title: fmt.Sprintf("Comparación del número de %s en el aeropuerto de %s (%d vs. %d)",
				caption.Label, res.Airport, opts.Years[0], opts.Years[1]),
			XLabel:     "Mes de registro",
			YLabel:     fmt.Sprintf("Total de %s mensuales", caption.Label),
			Categories: table.Rows,
			Groups:     groups,
			YMax:       peak * 1.07,
			Footer:     r.footer(),
			Theme:      render.PurpleTheme,
		})
	})
	r.export(&res, table.Frame(), path, string(opts.Category))
	return res, err
}

