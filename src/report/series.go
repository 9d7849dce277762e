package report

import (
	"fmt"

	"AirportStats/src/processor"
	"AirportStats/src/render"
)

type SeriesOptions struct {
	Airport  string
	Category processor.Category
	Window   int
	Months   int
}

var originColors = map[processor.Origin]string{
	processor.Domestic:      "#18ffff",
	processor.International: "#fbc02d",
}

// Series 宽格式数据: 合成月度序列, 滑动平均后画出各来源的曲线
func (r *Reporter) Series(records []processor.Record, opts SeriesOptions) (Result, error) {
	if opts.Category == "" {
		opts.Category = processor.Passengers
	}
	if opts.Window == 0 {
		opts.Window = processor.QuarterlyWindow
	}
	if opts.Months <= 0 {
		opts.Months = DefaultMonths
	}

	records = processor.Filter(records, processor.Predicates{Category: opts.Category})
	airport, err := r.pickAirport(records, opts.Airport)
	if err != nil {
		return Result{}, err
	}
	res := Result{Airport: r.normalizer.Canonical(airport)}
	caption := r.caption(opts.Category)

	frame, err := processor.Synthesize(
		processor.Filter(records, processor.Predicates{Airport: airport}),
		processor.Origins,
	)
	if err != nil {
		return res, fmt.Errorf("synthesize %s: %w", airport, err)
	}
	smoothed, err := processor.RollingMeanFrame(frame, opts.Window)
	if err != nil {
		return res, fmt.Errorf("rolling mean %s: %w", airport, err)
	}
	smoothed = processor.TailFrame(smoothed, opts.Months)
	r.logger.Info("生成月度序列", "airport", airport, "months", smoothed.Len(), "window", opts.Window)

	lines := make([]render.Line, 0, len(processor.Origins))
	for _, origin := range processor.Origins {
		lines = append(lines, render.Line{
			Label:  capitalize(caption.Label) + " " + r.dcfg.GetOriginLabel(string(origin)),
			Series: smoothed.Series(origin),
			Color:  originColors[origin],
		})
	}

	path := r.outputPath(caption.Label, "mensuales", airport)
	err = r.draw(&res, path, func() error {
		return r.renderer.Line(path, render.LineChart{
			Title:  fmt.Sprintf("Número de %s mensuales en el aeropuerto de %s", caption.Label, res.Airport),
			XLabel: "Fecha de registro",
			YLabel: fmt.Sprintf("Número de %s mensuales", caption.Label),
			Lines:  lines,
			Footer: r.footer(fmt.Sprintf("Media móvil de %d meses", opts.Window)),
			Theme:  render.NightTheme,
		})
	})
	r.export(&res, smoothed.Frame(), path, string(opts.Category))
	return res, err
}
