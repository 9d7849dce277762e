// reader.go
package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AirportStats/src/config"
	"AirportStats/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// ErrMissingColumn 源文件缺少 schema 中声明的列, 无法继续
var ErrMissingColumn = errors.New("missing column")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options 读取参数
type Options struct {
	SheetName string // 仅 xlsx
	HeaderRow int    // 仅 xlsx, 从0开始
}

// ReadTable 读取 csv 或 xlsx 文件为 DataFrame 并校验 schema 列.
// 所有列都按字符串读取, 类型转换由 processor 负责.
func ReadTable(filePath string, schema config.Schema, opts Options) (dataframe.DataFrame, error) {
	var (
		df  dataframe.DataFrame
		err error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		df, err = ReadXLSX(filePath, opts.SheetName, opts.HeaderRow)
	default:
		df, err = ReadCSV(filePath, schema.Delimiter)
	}
	if err != nil {
		return dataframe.New(), err
	}

	if err := RequireColumns(df, schema); err != nil {
		return dataframe.New(), fmt.Errorf("%s: %w", filePath, err)
	}

	return dropBlankRows(df, schema.Airport), nil
}

// ReadCSV 读取分隔符文件, delimiter 为空时使用逗号
func ReadCSV(filePath, delimiter string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to open csv file: %w", err)
	}
	return ParseCSV(data, delimiter)
}

// ParseCSV 从内存中解析分隔符数据
func ParseCSV(data []byte, delimiter string) (dataframe.DataFrame, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	delim := ','
	if delimiter != "" {
		delim = []rune(delimiter)[0]
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.New(), fmt.Errorf("failed to parse csv: %w", df.Err)
	}
	return df, nil
}

// ReadXLSX 读取 xlsx 的指定工作表, sheetName 为空时读取第一个工作表
func ReadXLSX(filePath, sheetName string, headerRow int) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open file false: %w", err)
	}
	return readWorkbook(xlFile, sheetName, headerRow)
}

// ReadXLSXBinary 与 ReadXLSX 相同, 数据来自内存
func ReadXLSXBinary(data []byte, sheetName string, headerRow int) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open binary false: %w", err)
	}
	return readWorkbook(xlFile, sheetName, headerRow)
}

func readWorkbook(xlFile *xlsx.File, sheetName string, headerRow int) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.New(), fmt.Errorf("sheet %q not found", sheetName)
		}
		sheet = s
	}

	return convertSheetToDataFrame(sheet, headerRow)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet, headerRow int) (dataframe.DataFrame, error) {
	if headerRow < 0 || headerRow >= len(sheet.Rows) {
		return dataframe.New(), fmt.Errorf("header row %d out of range (sheet has %d rows)", headerRow, len(sheet.Rows))
	}

	var headers []string
	for _, cell := range sheet.Rows[headerRow].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-headerRow-1)
	}

	for _, row := range sheet.Rows[headerRow+1:] {
		if row == nil {
			continue
		}
		for i := range headers {
			value := ""
			if i < len(row.Cells) && row.Cells[i] != nil {
				value = row.Cells[i].Value
			}
			columns[i] = append(columns[i], value)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.New(), df.Err
	}
	return df, nil
}

// RequireColumns 校验 schema 要求的列全部存在
func RequireColumns(df dataframe.DataFrame, schema config.Schema) error {
	required, err := schema.Columns()
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range required {
		if !utils.HasColumn(df, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// dropBlankRows 去除机场列为空的行(通常是文件末尾的合计或空行)
func dropBlankRows(df dataframe.DataFrame, airportCol string) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}
	return df.Filter(
		dataframe.F{
			Colname:    airportCol,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && strings.TrimSpace(el.String()) != ""
			},
		},
	)
}
