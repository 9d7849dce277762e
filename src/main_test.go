package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkspace 写入配置与长格式数据, 返回配置目录和输出目录
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "imgs")

	var csv strings.Builder
	csv.WriteString("AEROPUERTO,FECHA,OPCIONES,TIPO,TOTAL\n")
	for _, year := range []int{2023, 2024} {
		for m := 1; m <= 12; m++ {
			fmt.Fprintf(&csv, "ACAPULCO,%d-%02d-01,PASAJEROS,NACIONAL,%d\n", year, m, 5000+year-2023)
			fmt.Fprintf(&csv, "MERIDA,%d-%02d-01,PASAJEROS,INTERNACIONAL,%d\n", year, m, 300)
		}
	}
	dataFile := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(dataFile, []byte(csv.String()), 0644))

	cfg := fmt.Sprintf(`{"data_file": %q, "output_dir": %q, "log_name": %q, "chart_width": 480, "chart_height": 270, "font_size": 12, "export_xlsx": true}`,
		dataFile, out, filepath.Join(dir, "logs", "app.log"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfg), 0644))
	return dir, out
}

func TestRunCompare(t *testing.T) {
	dir, out := setupWorkspace(t)
	var buf bytes.Buffer

	err := run([]string{"compare", "-config", dir, "-airport", "acapulco", "-years", "2023,2024", "-category", "PASAJEROS"}, &buf)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "comparacion_pasajeros_acapulco.png"))
	assert.FileExists(t, filepath.Join(out, "comparacion_pasajeros_acapulco.xlsx"))
	assert.Contains(t, buf.String(), "处理完成")
}

func TestRunTop(t *testing.T) {
	dir, out := setupWorkspace(t)

	err := run([]string{"top", "-config", dir, "-year", "2024", "-n", "40"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "pasajeros_2024.png"))
}

func TestRunTrend(t *testing.T) {
	dir, out := setupWorkspace(t)

	err := run([]string{"trend", "-config", dir, "-airport", "MERIDA", "-category", "PASAJEROS"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "pasajeros_nacionales.png"))
	assert.FileExists(t, filepath.Join(out, "pasajeros_internacionales.png"))
}

func TestRunMissingColumn(t *testing.T) {
	dir, _ := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("AIRPORT,FECHA\nACAPULCO,2024-01-01\n"), 0644))

	err := run([]string{"top", "-config", dir, "-year", "2024"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AEROPUERTO")
}

func TestRunUnknownCommand(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, run(nil, &buf))
	assert.Error(t, run([]string{"watch"}, &buf))
	assert.Contains(t, buf.String(), "用法")
}

func TestParseYears(t *testing.T) {
	years, err := parseYears("2023, 2024")
	require.NoError(t, err)
	assert.Equal(t, [2]int{2023, 2024}, years)

	_, err = parseYears("2023")
	assert.Error(t, err)
	_, err = parseYears("2023,veinte")
	assert.Error(t, err)
}
