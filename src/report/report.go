package report

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"AirportStats/src/config"
	"AirportStats/src/processor"
	"AirportStats/src/render"
	"AirportStats/src/storage"
	"AirportStats/src/utils"

	"github.com/go-gota/gota/dataframe"
)

var ErrUnknownAirport = errors.New("airport not found in data")

// Renderer 把图表描述写成图片文件
type Renderer interface {
	Line(path string, c render.LineChart) error
	Bars(path string, c render.BarChart) error
	Rank(path string, c render.RankChart) error
}

// Result 一次报表生成的产物
type Result struct {
	Airport string   // 显示名称
	Charts  []string // 成功写出的图片
	Tables  []string // 导出的 xlsx
	Failed  int
}

// Reporter 每个报表是一条线性流水线: 筛选, 透视, 生成序列, 绘图, 导出.
// 单张图失败只记录日志, 不影响其他图.
type Reporter struct {
	cfg        *config.Config
	dcfg       *config.DataConfig
	renderer   Renderer
	logger     *storage.Logger
	normalizer *processor.Normalizer
	rng        *rand.Rand
}

func NewReporter(cfg *config.Config, dcfg *config.DataConfig, renderer Renderer, logger *storage.Logger, seed int64) *Reporter {
	return &Reporter{
		cfg:        cfg,
		dcfg:       dcfg,
		renderer:   renderer,
		logger:     logger,
		normalizer: processor.NewNormalizer(dcfg.GetNames()),
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// pickAirport 未指定时随机选择一个机场
func (r *Reporter) pickAirport(records []processor.Record, airport string) (string, error) {
	airports := processor.Airports(records)
	if len(airports) == 0 {
		return "", fmt.Errorf("%w: no records", ErrUnknownAirport)
	}

	airport = strings.ToUpper(strings.TrimSpace(airport))
	if airport == "" {
		return airports[r.rng.Intn(len(airports))], nil
	}
	if !utils.Contains(airports, airport) {
		return "", fmt.Errorf("%w: %s", ErrUnknownAirport, airport)
	}
	return airport, nil
}

// caption 类别的文本配置, 缺失时用类别名的小写形式
func (r *Reporter) caption(category processor.Category) config.Caption {
	c, ok := r.dcfg.GetCaption(string(category))
	if !ok {
		c = config.Caption{}
	}
	if c.Label == "" {
		c.Label = strings.ToLower(string(category))
	}
	if c.Color == "" {
		c.Color = "#00bfa5"
	}
	return c
}

func (r *Reporter) footer(extra ...string) []string {
	lines := append([]string(nil), extra...)
	for _, s := range []string{r.cfg.Source, r.cfg.Credit} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func (r *Reporter) outputPath(parts ...string) string {
	slugs := make([]string, len(parts))
	for i, p := range parts {
		slugs[i] = slug(p)
	}
	return filepath.Join(r.cfg.OutputDir, strings.Join(slugs, "_")+".png")
}

// export 开启 ExportXLSX 时把图表对应的表写到同名 xlsx
func (r *Reporter) export(res *Result, df dataframe.DataFrame, chartPath, sheet string) {
	if !r.cfg.ExportXLSX {
		return
	}
	path := strings.TrimSuffix(chartPath, filepath.Ext(chartPath)) + ".xlsx"
	if err := utils.SaveToExcel(df, path, sheet); err != nil {
		r.logger.Warning("导出表格失败", "path", path, "error", err)
		return
	}
	r.logger.Debug("处理后的数据已保存", "path", path)
	res.Tables = append(res.Tables, path)
}

// draw 调用渲染函数并记录结果
func (r *Reporter) draw(res *Result, path string, fn func() error) error {
	if err := fn(); err != nil {
		res.Failed++
		r.logger.Error("生成图表失败", "path", path, "error", err)
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	r.logger.Info("已生成图表", "path", path)
	res.Charts = append(res.Charts, path)
	return nil
}

// slug "San José del Cabo" -> "san_josé_del_cabo"
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) || c == '/' || c == '\\' {
			return '_'
		}
		return c
	}, s)
}

// capitalize 首字母大写, 其余不变
func capitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(c)) + s[size:]
}
