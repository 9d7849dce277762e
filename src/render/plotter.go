package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"AirportStats/src/processor"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 96

var ErrEmptyChart = errors.New("chart has no data")

// Theme 画布颜色, 十六进制 "#RRGGBB"
type Theme struct {
	Background string
	Text       string
	Grid       string
}

var (
	NightTheme  = Theme{Background: "#16213E", Text: "#FFFFFF", Grid: "#2A3A66"}
	PurpleTheme = Theme{Background: "#393053", Text: "#FFFFFF", Grid: "#4E4470"}
)

type Options struct {
	Width    int // 像素
	Height   int
	FontSize int // 像素
	Theme    Theme
}

// Line 折线图中的一条线, NaN 位置不画
type Line struct {
	Label  string
	Series processor.Series
	Color  string
}

type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	Footer []string
	Theme  Theme // 零值表示使用 Plotter 的配色
}

// BarGroup 分组柱状图中的一组, Texts 为空时不画数字标签
type BarGroup struct {
	Label  string
	Values []float64
	Texts  []string
	Color  string
}

type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Groups     []BarGroup
	YMax       float64 // 0 表示自动
	Footer     []string
	Theme      Theme
}

// RankChart 横向排行榜, 数值轴为对数刻度
type RankChart struct {
	Title   string
	XLabel  string
	Ranking processor.Ranking
	Color   string
	Footer  []string
	Theme   Theme
}

// Plotter 用 gonum/plot 绘制 PNG(或 JPEG) 图片
type Plotter struct {
	opts       Options
	background color.Color
	foreground color.Color
	grid       color.Color
}

func New(opts Options) (*Plotter, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 16
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = NightTheme
	}

	p := &Plotter{opts: opts}
	var err error
	if p.background, err = ParseHexColor(opts.Theme.Background); err != nil {
		return nil, err
	}
	if p.foreground, err = ParseHexColor(opts.Theme.Text); err != nil {
		return nil, err
	}
	if p.grid, err = ParseHexColor(opts.Theme.Grid); err != nil {
		return nil, err
	}
	return p, nil
}

// WithTheme 返回使用另一套配色的副本
func (r *Plotter) WithTheme(theme Theme) (*Plotter, error) {
	opts := r.opts
	opts.Theme = theme
	return New(opts)
}

func (r *Plotter) themed(theme Theme) (*Plotter, error) {
	if theme == (Theme{}) || theme == r.opts.Theme {
		return r, nil
	}
	return r.WithTheme(theme)
}

func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / dpi
}

func (r *Plotter) newPlot(title string) *plot.Plot {
	p := plot.New()
	size := pixels(r.opts.FontSize)

	p.BackgroundColor = r.background
	p.Title.Text = title
	p.Title.TextStyle.Color = r.foreground
	p.Title.TextStyle.Font.Size = size * 1.3
	p.Title.Padding = size

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = r.foreground
		ax.Label.TextStyle.Color = r.foreground
		ax.Label.TextStyle.Font.Size = size * 0.9
		ax.Tick.Label.Color = r.foreground
		ax.Tick.Label.Font.Size = size * 0.75
		ax.Tick.LineStyle.Color = r.foreground
	}

	p.Legend.Top = true
	p.Legend.TextStyle.Color = r.foreground
	p.Legend.TextStyle.Font.Size = size * 0.8

	grid := plotter.NewGrid()
	grid.Vertical.Color = r.grid
	grid.Horizontal.Color = r.grid
	p.Add(grid)
	return p
}

// Line 时间序列折线图
func (r *Plotter) Line(path string, c LineChart) error {
	r, err := r.themed(c.Theme)
	if err != nil {
		return err
	}

	p := r.newPlot(c.Title)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "01\n2006"}
	p.Y.Tick.Marker = thousandsTicks{}

	drawn := 0
	for _, l := range c.Lines {
		s := l.Series.Defined()
		if s.Len() == 0 {
			continue
		}
		xys := make(plotter.XYs, s.Len())
		for i := range xys {
			xys[i].X = float64(s.Times[i].Unix())
			xys[i].Y = s.Values[i]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("line %s: %w", l.Label, err)
		}
		if line.LineStyle.Color, err = ParseHexColor(l.Color); err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(3)

		p.Add(line)
		p.Legend.Add(l.Label, line)
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("%s: %w", c.Title, ErrEmptyChart)
	}
	return r.save(p, c.Footer, path)
}

// Bars 分组柱状图, 每组在类别位置两侧并排
func (r *Plotter) Bars(path string, c BarChart) error {
	if len(c.Categories) == 0 || len(c.Groups) == 0 {
		return fmt.Errorf("%s: %w", c.Title, ErrEmptyChart)
	}
	r, err := r.themed(c.Theme)
	if err != nil {
		return err
	}

	p := r.newPlot(c.Title)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Y.Tick.Marker = thousandsTicks{}
	p.NominalX(c.Categories...)

	slot := pixels(r.opts.Width) * 0.8 / vg.Length(len(c.Categories))
	width := slot * 0.8 / vg.Length(len(c.Groups))

	for gi, g := range c.Groups {
		if len(g.Values) != len(c.Categories) {
			return fmt.Errorf("group %s has %d values for %d categories", g.Label, len(g.Values), len(c.Categories))
		}
		bars, err := plotter.NewBarChart(plotter.Values(g.Values), width)
		if err != nil {
			return fmt.Errorf("group %s: %w", g.Label, err)
		}
		if bars.Color, err = ParseHexColor(g.Color); err != nil {
			return err
		}
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(gi)-float64(len(c.Groups)-1)/2) * width

		p.Add(bars)
		p.Legend.Add(g.Label, bars)

		if len(g.Texts) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(g.Values))
		for i, v := range g.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: g.Texts})
		if err != nil {
			return fmt.Errorf("group %s labels: %w", g.Label, err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = r.foreground
			labels.TextStyle[i].Font.Size = pixels(r.opts.FontSize) * 0.6
			labels.TextStyle[i].XAlign = text.XCenter
			labels.TextStyle[i].YAlign = text.YBottom
		}
		labels.Offset = vg.Point{X: bars.Offset, Y: vg.Points(3)}
		p.Add(labels)
	}

	if c.YMax > 0 {
		p.Y.Min = 0
		p.Y.Max = c.YMax
	}
	return r.save(p, c.Footer, path)
}

// Rank 横向柱状图. 柱长为 log10(值) - LogFloor, 刻度标签换算回原值,
// 相当于下限为 10^LogFloor 的对数坐标.
func (r *Plotter) Rank(path string, c RankChart) error {
	entries := c.Ranking.Entries
	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", c.Title, ErrEmptyChart)
	}
	r, err := r.themed(c.Theme)
	if err != nil {
		return err
	}
	floor := c.Ranking.LogFloor

	// 第一名画在最上面
	n := len(entries)
	names := make([]string, n)
	lengths := make(plotter.Values, n)
	xys := make(plotter.XYs, n)
	texts := make([]string, n)
	for i, e := range entries {
		j := n - 1 - i
		names[j] = e.Name
		lengths[j] = math.Log10(e.Total) - floor
		xys[j] = plotter.XY{X: lengths[j], Y: float64(j)}
		texts[j] = " " + processor.FormatThousands(e.Total) + " "
	}

	p := r.newPlot(c.Title)
	p.X.Label.Text = c.XLabel
	p.X.Tick.Marker = logTicks{floor: floor}
	p.NominalY(names...)
	p.Legend.Top = false

	slot := pixels(r.opts.Height) * 0.75 / vg.Length(n)
	bars, err := plotter.NewBarChart(lengths, slot*0.6)
	if err != nil {
		return fmt.Errorf("rank bars: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	if bars.Color, err = ParseHexColor(c.Color); err != nil {
		return err
	}
	p.Add(bars)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("rank labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = r.foreground
		labels.TextStyle[i].Font.Size = pixels(r.opts.FontSize) * 0.55
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].XAlign = text.XLeft
		if entries[n-1-i].Inside {
			labels.TextStyle[i].XAlign = text.XRight
		}
	}
	p.Add(labels)

	p.X.Min = 0
	p.X.Max = math.Log10(entries[0].Total*1.02) - floor
	return r.save(p, c.Footer, path)
}

// save 在画布底部留出脚注区域, 再按扩展名编码为图片
func (r *Plotter) save(p *plot.Plot, footer []string, path string) error {
	var lines []string
	for _, f := range footer {
		lines = append(lines, strings.Split(f, "\n")...)
	}

	img := vgimg.NewWith(
		vgimg.UseWH(pixels(r.opts.Width), pixels(r.opts.Height)),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(r.background),
	)
	dc := draw.New(img)

	style := p.X.Tick.Label
	style.XAlign = text.XLeft
	style.YAlign = text.YBottom
	pad := pixels(r.opts.FontSize)
	lineHeight := style.Font.Size * 1.5
	footerHeight := lineHeight * vg.Length(len(lines))

	p.Draw(draw.Crop(dc, pad, -pad, footerHeight+pad, -pad/2))
	for i, line := range lines {
		y := dc.Min.Y + pad/2 + lineHeight*vg.Length(len(lines)-1-i)
		dc.FillText(style, vg.Point{X: dc.Min.X + pad, Y: y}, line)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.WriterTo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		w = vgimg.JpegCanvas{Canvas: img}
	default:
		w = vgimg.PngCanvas{Canvas: img}
	}
	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("写入图片 %s 失败: %w", path, err)
	}
	return f.Close()
}

// ParseHexColor "#RRGGBB" 或 "#RGB"
func ParseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// thousandsTicks 默认刻度, 标签加千位分隔符
type thousandsTicks struct{}

func (thousandsTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = processor.FormatThousands(ticks[i].Value)
		}
	}
	return ticks
}

// logTicks 轴上的值为 log10(v) - floor
type logTicks struct {
	floor float64
}

func (t logTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for k := math.Floor(min); k <= max; k++ {
		if k >= min {
			ticks = append(ticks, plot.Tick{Value: k, Label: processor.FormatThousands(math.Pow(10, k+t.floor))})
		}
		for m := 2; m <= 9; m++ {
			v := k + math.Log10(float64(m))
			if v >= min && v <= max {
				ticks = append(ticks, plot.Tick{Value: v})
			}
		}
	}
	return ticks
}
