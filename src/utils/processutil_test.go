package utils

import (
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"trend", "top"}, "top"))
	assert.False(t, Contains([]int{2023, 2024}, 2022))
}

func TestSaveToExcel(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Ene.", "Feb."}, series.String, "MONTH"),
		series.New([]float64{1500, 2500.5}, series.Float, "2024"),
	)
	path := filepath.Join(t.TempDir(), "out", "comparacion.xlsx")

	require.NoError(t, SaveToExcel(df, path, "PASSENGERS"))
	assert.True(t, HasColumn(df, "2024"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("PASSENGERS")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"MONTH", "2024"}, rows[0])
	assert.Equal(t, []string{"Ene.", "1500"}, rows[1])
	assert.Equal(t, []string{"Feb.", "2500.5"}, rows[2])
}
