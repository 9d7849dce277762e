package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acapulcoRecords 2023 合计 100,000, 2024 合计 120,000
func acapulcoRecords() []Record {
	var records []Record
	for m := 1; m <= 12; m++ {
		records = append(records,
			Record{Airport: "ACAPULCO", Period: Period{2023, m}, Category: Passengers, Origin: Domestic, Total: 5000},
			Record{Airport: "ACAPULCO", Period: Period{2024, m}, Category: Passengers, Origin: Domestic, Total: 6000},
			Record{Airport: "ACAPULCO", Period: Period{2024, m}, Category: Passengers, Origin: International, Total: 4000},
		)
		if m <= 10 {
			records = append(records,
				Record{Airport: "ACAPULCO", Period: Period{2023, m}, Category: Passengers, Origin: International, Total: 4000})
		}
	}
	records = append(records,
		Record{Airport: "ACAPULCO", Period: Period{2024, 1}, Category: Operations, Origin: Domestic, Total: 77},
		Record{Airport: "CANCUN", Period: Period{2024, 1}, Category: Passengers, Origin: Domestic, Total: 99},
		Record{Airport: "ACAPULCO", Period: Period{2022, 1}, Category: Passengers, Origin: Domestic, Total: 55},
	)
	return records
}

func TestPivotAcapulcoYearComparison(t *testing.T) {
	filtered := Filter(acapulcoRecords(), Predicates{
		Airport:  "ACAPULCO",
		Category: Passengers,
		Years:    []int{2023, 2024},
	})

	table := Pivot(filtered, PivotSpec{
		Rows:      ByMonth,
		Cols:      ByYear,
		RowDomain: MonthKeys(),
		ColDomain: YearKeys(2023, 2024),
	})

	assert.Equal(t, 12, table.Nrow())
	assert.Equal(t, []string{"2023", "2024"}, table.Cols)
	assert.Equal(t, MonthKeys(), table.Rows)
	assert.Equal(t, 100000.0, table.ColumnSum("2023"))
	assert.Equal(t, 120000.0, table.ColumnSum("2024"))
	assert.Equal(t, 5000.0, table.Value("12", "2023"))
	assert.Equal(t, 9000.0, table.Value("1", "2023"))

	relabeled := table.RelabelRows(MonthLabeler([]string{
		"Ene.", "Feb.", "Mar.", "Abr.", "May.", "Jun.",
		"Jul.", "Ago.", "Sep.", "Oct.", "Nov.", "Dic.",
	}))
	assert.Equal(t, "Ene.", relabeled.Rows[0])
	assert.Equal(t, "Dic.", relabeled.Rows[11])
	assert.Equal(t, table.Column("2024"), relabeled.Column("2024"))
	assert.Equal(t, "1", table.Rows[0], "relabel must not modify the source table")
}

func TestPivotFillCompleteness(t *testing.T) {
	records := []Record{
		{Airport: "ACAPULCO", Period: Period{2024, 3}, Origin: Domestic, Total: 10},
		{Airport: "CANCUN", Period: Period{2024, 3}, Origin: International, Total: 20},
	}

	table := Pivot(records, PivotSpec{
		Rows:      ByAirport,
		Cols:      ByOrigin,
		ColDomain: OriginKeys(Origins...),
	})

	require.Equal(t, []string{"ACAPULCO", "CANCUN"}, table.Rows)
	require.Equal(t, []string{"DOMESTIC", "INTERNATIONAL"}, table.Cols)
	for i := range table.Rows {
		for j := range table.Cols {
			assert.NotPanics(t, func() { table.At(i, j) })
		}
	}
	assert.Zero(t, table.Value("ACAPULCO", "INTERNATIONAL"))
	assert.Zero(t, table.Value("CANCUN", "DOMESTIC"))
	assert.Zero(t, table.Value("TOLUCA", "DOMESTIC"))
	assert.Equal(t, []float64{0, 0}, table.Column("UNSPECIFIED"))
}

func TestPivotSumConservationAndDuplicates(t *testing.T) {
	records := acapulcoRecords()
	records = append(records, records[0])

	var want float64
	for _, r := range records {
		want += r.Total
	}

	table := Pivot(records, PivotSpec{Rows: ByAirport, Cols: ByYear})
	assert.Equal(t, want, table.Sum())
	assert.Equal(t, []string{"2022", "2023", "2024"}, table.Cols)
	assert.Equal(t, 105000.0, table.Value("ACAPULCO", "2023"))
}

func TestPivotIdempotent(t *testing.T) {
	records := acapulcoRecords()
	spec := PivotSpec{Rows: ByDate, Cols: ByOrigin}

	assert.Equal(t, Pivot(records, spec), Pivot(records, spec))
}

func TestPivotEmpty(t *testing.T) {
	table := Pivot(nil, PivotSpec{Rows: ByMonth, Cols: ByYear, ColDomain: YearKeys(2023)})

	assert.Equal(t, 0, table.Nrow())
	assert.Equal(t, 1, table.Ncol())
	assert.Zero(t, table.Sum())
}

func TestPivotUnspecifiedOrigin(t *testing.T) {
	records := []Record{{Airport: "ACAPULCO", Period: Period{2024, 1}, Total: 3}}

	table := Pivot(records, PivotSpec{Rows: ByAirport, Cols: ByOrigin})
	assert.Equal(t, []string{UnspecifiedOrigin}, table.Cols)
	assert.Equal(t, 3.0, table.Value("ACAPULCO", UnspecifiedOrigin))
}

func TestTableSeries(t *testing.T) {
	table := Pivot(acapulcoRecords(), PivotSpec{
		Rows:      ByDate,
		Cols:      ByOrigin,
		ColDomain: OriginKeys(Origins...),
	})

	s, err := table.Series(string(International))
	require.NoError(t, err)
	assert.Equal(t, table.Nrow(), s.Len())
	assert.Equal(t, "2022-01-01", s.Times[0].Format(dateKeyLayout))
	assert.Zero(t, s.Values[0])

	_, err = Pivot(acapulcoRecords(), PivotSpec{Rows: ByMonth, Cols: ByYear}).Series("2023")
	assert.Error(t, err)
}

func TestTableFrame(t *testing.T) {
	table := Pivot(acapulcoRecords(), PivotSpec{
		Rows:      ByMonth,
		Cols:      ByYear,
		ColDomain: YearKeys(2023, 2024),
	})

	df := table.Frame()
	assert.Equal(t, []string{"MONTH", "2022", "2023", "2024"}, df.Names())
	assert.Equal(t, 12, df.Nrow())
	assert.Equal(t, table.Column("2024"), df.Col("2024").Float())
}
