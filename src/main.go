package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"AirportStats/src/config"
	"AirportStats/src/datasource/file"
	"AirportStats/src/processor"
	"AirportStats/src/render"
	"AirportStats/src/report"
	"AirportStats/src/storage"
	"AirportStats/src/utils"
)

const usage = `用法: airstats <trend|series|compare|top> [参数]

  trend    某机场各来源的月度数值与 STL 趋势
  series   宽格式数据, 某机场各来源的滑动平均曲线
  compare  某机场两个年份的逐月对比
  top      某年流量最大的 N 个机场
`

var commands = []string{"trend", "series", "compare", "top"}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	configDir string
	airport   string
	category  string
	years     string
	year      int
	n         int
	window    int
	months    int
	seed      int64
}

func parseFlags(cmd string, args []string, out io.Writer) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.configDir, "config", "./config", "配置目录, 包含 config.json 与 dataconfig.json")
	fs.StringVar(&f.airport, "airport", "", "机场名称, 为空时随机选择")
	fs.StringVar(&f.category, "category", "", "类别: PASAJEROS/OPERACIONES/CARGA 或 PASSENGERS/OPERATIONS/CARGO, trend 为空时画pasajeros与operaciones")
	fs.StringVar(&f.years, "years", "", "compare 的两个年份, 例如 2023,2024")
	fs.IntVar(&f.year, "year", 0, "top 的年份")
	fs.IntVar(&f.n, "n", report.DefaultTopN, "排行榜长度")
	fs.IntVar(&f.window, "window", processor.QuarterlyWindow, "滑动平均窗口(月)")
	fs.IntVar(&f.months, "months", report.DefaultMonths, "保留最近的月数")
	fs.Int64Var(&f.seed, "seed", 0, "随机选择机场的种子, 0 表示使用当前时间")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || !utils.Contains(commands, args[0]) {
		fmt.Fprint(out, usage)
		return errors.New("未知命令")
	}
	cmd := args[0]

	f, err := parseFlags(cmd, args[1:], out)
	if err != nil {
		return err
	}

	cfg, dcfg, err := config.LoadConfig(f.configDir, "config.json", "dataconfig.json")
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLoggerWithLevel(cfg.LogName, out, storage.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()
	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志轮转失败", "error", err)
	}

	plotter, err := render.New(render.Options{
		Width:    cfg.ChartWidth,
		Height:   cfg.ChartHeight,
		FontSize: cfg.FontSize,
	})
	if err != nil {
		return err
	}

	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	classifier := processor.NewClassifier(dcfg.Categories, dcfg.Origins)
	reporter := report.NewReporter(cfg, dcfg, plotter, logger, seed)
	var category processor.Category
	if f.category != "" {
		category = classifier.Category(f.category)
	}

	t1 := time.Now()
	var res report.Result

	switch cmd {
	case "trend":
		records, err := loadRecords(cfg, dcfg.Long, cfg.DataFile, classifier, logger)
		if err != nil {
			return err
		}
		var categories []processor.Category
		if category != "" {
			categories = []processor.Category{category}
		}
		res, err = reporter.Trend(records, report.TrendOptions{
			Airport:    f.airport,
			Categories: categories,
			Months:     f.months,
		})
		logResult(logger, cmd, res, t1)
		return err

	case "series":
		records, err := loadRecords(cfg, dcfg.Wide, cfg.WideDataFile, classifier, logger)
		if err != nil {
			return err
		}
		res, err = reporter.Series(records, report.SeriesOptions{
			Airport:  f.airport,
			Category: category,
			Window:   f.window,
			Months:   f.months,
		})
		logResult(logger, cmd, res, t1)
		return err

	case "compare":
		years, err := parseYears(f.years)
		if err != nil {
			return err
		}
		records, err := loadRecords(cfg, dcfg.Long, cfg.DataFile, classifier, logger)
		if err != nil {
			return err
		}
		res, err = reporter.Compare(records, report.CompareOptions{
			Airport:  f.airport,
			Category: category,
			Years:    years,
		})
		logResult(logger, cmd, res, t1)
		return err

	default:
		records, err := loadRecords(cfg, dcfg.Long, cfg.DataFile, classifier, logger)
		if err != nil {
			return err
		}
		res, err = reporter.Top(records, report.TopOptions{
			Year:     f.year,
			Category: category,
			N:        f.n,
		})
		logResult(logger, cmd, res, t1)
		return err
	}
}

// loadRecords 读取源文件, 缺列时直接返回错误
func loadRecords(cfg *config.Config, schema config.Schema, path string, classifier *processor.Classifier, logger *storage.Logger) ([]processor.Record, error) {
	df, err := file.ReadTable(path, schema, file.Options{SheetName: cfg.SheetName, HeaderRow: cfg.HeaderRow})
	if err != nil {
		logger.Error("读取数据失败", "path", path, "error", err)
		return nil, err
	}
	records, err := processor.FromFrame(df, schema, classifier)
	if err != nil {
		logger.Error("解析数据失败", "path", path, "error", err)
		return nil, err
	}
	logger.Info("已读取数据", "path", path, "rows", df.Nrow(), "records", len(records))
	return records, nil
}

func logResult(logger *storage.Logger, cmd string, res report.Result, start time.Time) {
	logger.Info("处理完成",
		"command", cmd,
		"airport", res.Airport,
		"charts", len(res.Charts),
		"tables", len(res.Tables),
		"failed", res.Failed,
		"elapsed", time.Since(start))
}

// parseYears "2023,2024" -> [2023 2024]
func parseYears(s string) ([2]int, error) {
	var years [2]int
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return years, fmt.Errorf("需要两个年份, 例如 2023,2024: %q", s)
	}
	for i, p := range parts {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return years, fmt.Errorf("无效的年份 %q", p)
		}
		years[i] = y
	}
	return years, nil
}
