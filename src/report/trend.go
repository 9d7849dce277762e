package report

import (
	"errors"
	"fmt"

	"AirportStats/src/processor"
	"AirportStats/src/render"
)

// DefaultMonths 图中保留最近10年
const DefaultMonths = 120

type TrendOptions struct {
	Airport    string // 为空时随机选择
	Categories []processor.Category
	Months     int
}

// Trend 每个类别与来源各一张图: 月度数值与 STL 趋势(周期12).
// 文件名为 {类别}_{来源}.png, 例如 pasajeros_nacionales.png
func (r *Reporter) Trend(records []processor.Record, opts TrendOptions) (Result, error) {
	if len(opts.Categories) == 0 {
		opts.Categories = []processor.Category{processor.Passengers, processor.Operations}
	}
	if opts.Months <= 0 {
		opts.Months = DefaultMonths
	}

	airport, err := r.pickAirport(records, opts.Airport)
	if err != nil {
		return Result{}, err
	}
	res := Result{Airport: r.normalizer.Canonical(airport)}
	r.logger.Info("生成趋势图", "airport", airport, "name", res.Airport)

	// 去掉 0 值后再透视, 缺失的来源补 0
	filtered := processor.Filter(records, processor.Predicates{Airport: airport, NonZero: true})

	var errs []error
	for _, category := range opts.Categories {
		caption := r.caption(category)
		table := processor.Pivot(
			processor.Filter(filtered, processor.Predicates{Category: category}),
			processor.PivotSpec{
				Rows:      processor.ByDate,
				Cols:      processor.ByOrigin,
				ColDomain: processor.OriginKeys(processor.Origins...),
			},
		)
		r.export(&res, table.Frame(), r.outputPath(caption.Label, airport), string(category))

		for _, origin := range processor.Origins {
			originLabel := r.dcfg.GetOriginLabel(string(origin))
			path := r.outputPath(caption.Label, originLabel)
			err := r.draw(&res, path, func() error {
				chart, err := r.trendChart(table, origin, caption.Label, originLabel, res.Airport, opts.Months)
				if err != nil {
					return err
				}
				return r.renderer.Line(path, chart)
			})
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return res, errors.Join(errs...)
}

func (r *Reporter) trendChart(table *processor.Table, origin processor.Origin, label, originLabel, name string, months int) (render.LineChart, error) {
	s, err := table.Series(string(origin))
	if err != nil {
		return render.LineChart{}, err
	}
	trend, err := processor.STLTrend(s, processor.MonthlyPeriod)
	if err != nil {
		return render.LineChart{}, fmt.Errorf("%s %s: %w", label, originLabel, err)
	}

	return render.LineChart{
		Title:  fmt.Sprintf("Número de %s %s mensuales en el aeropuerto de %s", label, originLabel, name),
		XLabel: "Mes y año de registro",
		YLabel: "Número de registros mensuales",
		Lines: []render.Line{
			{Label: "Cifras absolutas", Series: s.Tail(months), Color: "#18ffff"},
			{Label: "Tendencia (12 periodos)", Series: trend.Tail(months), Color: "#ffca28"},
		},
		Footer: r.footer(),
		Theme:  render.NightTheme,
	}, nil
}
