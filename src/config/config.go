package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// 源数据布局
const (
	LayoutLong = "long" // 每行一个日期: AEROPUERTO, FECHA, OPCIONES, TIPO, TOTAL
	LayoutWide = "wide" // 每行一年, 12个月份列
)

// EnvPrefix 环境变量前缀, 例如 AIRSTATS_OUTPUT_DIR
const EnvPrefix = "AIRSTATS"

var ErrUnknownLayout = errors.New("unknown source layout")

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataFile     string `json:"data_file" yaml:"data_file" envconfig:"DATA_FILE"`                // 按日期排列的数据文件
	WideDataFile string `json:"wide_data_file" yaml:"wide_data_file" envconfig:"WIDE_DATA_FILE"` // 按年份+月份列排列的数据文件
	SheetName    string `json:"sheet_name" yaml:"sheet_name" envconfig:"SHEET_NAME"`             // xlsx 输入时的工作表
	HeaderRow    int    `json:"header_row" yaml:"header_row" envconfig:"HEADER_ROW"`             // xlsx 标题行(从0开始)
	OutputDir    string `json:"output_dir" yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogName      string `json:"log_name" yaml:"log_name" envconfig:"LOG_NAME"`
	LogMaxSize   string `json:"log_max_size" yaml:"log_max_size" envconfig:"LOG_MAX_SIZE"`
	LogLevel     string `json:"log_level" yaml:"log_level" envconfig:"LOG_LEVEL"`
	ExportXLSX   bool   `json:"export_xlsx" yaml:"export_xlsx" envconfig:"EXPORT_XLSX"`
	ChartWidth   int    `json:"chart_width" yaml:"chart_width" envconfig:"CHART_WIDTH"`
	ChartHeight  int    `json:"chart_height" yaml:"chart_height" envconfig:"CHART_HEIGHT"`
	FontSize     int    `json:"font_size" yaml:"font_size" envconfig:"FONT_SIZE"`
	Source       string `json:"source" yaml:"source" envconfig:"SOURCE"` // 图表脚注
	Credit       string `json:"credit" yaml:"credit" envconfig:"CREDIT"`
}

// Schema 源文件的列名. 列名随数据版本变化, 所以不写死在代码里
type Schema struct {
	Layout    string   `json:"layout" yaml:"layout"`
	Delimiter string   `json:"delimiter" yaml:"delimiter"`
	Airport   string   `json:"airport" yaml:"airport"`
	Date      string   `json:"date" yaml:"date"`
	Year      string   `json:"year" yaml:"year"`
	Category  string   `json:"category" yaml:"category"`
	Origin    string   `json:"origin" yaml:"origin"`
	Total     string   `json:"total" yaml:"total"`
	Months    []string `json:"months" yaml:"months"` // 按日历顺序的12个月份列
}

// Caption 每个类别的标题与注释模板
type Caption struct {
	Label string `json:"label" yaml:"label"` // 例如 "pasajeros"
	Title string `json:"title" yaml:"title"`
	Note  string `json:"note" yaml:"note"`
	Color string `json:"color" yaml:"color"` // 排行榜柱子颜色
}

type DataConfig struct {
	Long         Schema             `json:"long" yaml:"long"`
	Wide         Schema             `json:"wide" yaml:"wide"`
	Categories   map[string]string  `json:"categories" yaml:"categories"` // 原始值 -> OPERATIONS | PASSENGERS | CARGO
	Origins      map[string]string  `json:"origins" yaml:"origins"`       // 原始值 -> DOMESTIC | INTERNATIONAL
	OriginLabels map[string]string  `json:"origin_labels" yaml:"origin_labels"`
	Names        map[string]string  `json:"names" yaml:"names"` // 机场名称规范化
	MonthNames   []string           `json:"month_names" yaml:"month_names"`
	Captions     map[string]Caption `json:"captions" yaml:"captions"`

	mu sync.RWMutex
}

// Columns 返回该布局必须存在的列
func (s Schema) Columns() ([]string, error) {
	switch s.Layout {
	case LayoutLong:
		return []string{s.Airport, s.Date, s.Category, s.Origin, s.Total}, nil
	case LayoutWide:
		cols := []string{s.Airport, s.Year, s.Category, s.Origin}
		return append(cols, s.Months...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, s.Layout)
	}
}

// LoadConfig 读取应用配置与数据配置. 文件不存在时使用默认值,
// 最后用 AIRSTATS_* 环境变量覆盖应用配置.
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfg, dcfg, err := loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		return nil, nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, nil, fmt.Errorf("读取环境变量失败: %w", err)
	}

	if err := dcfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, isYAML(configFile), cfgChan, errChan)
	go parseDataConfig(dataConfigData, isYAML(dataConfigFile), dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

// readFile 文件不存在时返回 nil, 由调用方使用默认配置
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func isYAML(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(data []byte, asYAML bool, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if asYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func parseConfig(data []byte, asYAML bool, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if err := unmarshal(data, asYAML, cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- cfg
}

func parseDataConfig(data []byte, asYAML bool, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultDataConfig()
	if err := unmarshal(data, asYAML, dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg  *Config
		dcfg *DataConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("配置加载遇到多个错误: %w", errors.Join(errs...))
}

func (dc *DataConfig) validate() error {
	for name, s := range map[string]Schema{"long": dc.Long, "wide": dc.Wide} {
		if _, err := s.Columns(); err != nil {
			return fmt.Errorf("schema %s: %w", name, err)
		}
		if s.Layout == LayoutWide && len(s.Months) != 12 {
			return fmt.Errorf("schema %s: expected 12 month columns, got %d", name, len(s.Months))
		}
	}
	if len(dc.MonthNames) != 12 {
		return fmt.Errorf("expected 12 month names, got %d", len(dc.MonthNames))
	}
	return nil
}

func (dc *DataConfig) GetName(raw string) (string, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	name, ok := dc.Names[raw]
	return name, ok
}

func (dc *DataConfig) SetName(raw, name string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.Names == nil {
		dc.Names = make(map[string]string)
	}
	dc.Names[raw] = name
}

// GetNames 返回名称表的副本
func (dc *DataConfig) GetNames() map[string]string {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	names := make(map[string]string, len(dc.Names))
	for k, v := range dc.Names {
		names[k] = v
	}
	return names
}

func (dc *DataConfig) GetCaption(category string) (Caption, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	c, ok := dc.Captions[category]
	return c, ok
}

func (dc *DataConfig) GetOriginLabel(origin string) string {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	if label, ok := dc.OriginLabels[origin]; ok {
		return label
	}
	return strings.ToLower(origin)
}
