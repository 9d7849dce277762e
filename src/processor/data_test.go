package processor

import (
	"testing"

	"AirportStats/src/config"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	dcfg := config.DefaultDataConfig()
	return NewClassifier(dcfg.Categories, dcfg.Origins)
}

func TestClassifier(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		raw      string
		category Category
	}{
		{"PASAJEROS", Passengers},
		{"operaciones", Operations},
		{" CARGA ", Cargo},
		{"PASAJEROS/PASSENGERS", Passengers},
		{"MERCANCIA", Category("MERCANCIA")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.category, c.Category(tt.raw), tt.raw)
	}

	assert.Equal(t, Domestic, c.Origin("NACIONAL"))
	assert.Equal(t, International, c.Origin("INTERNACIONAL"))
	assert.Equal(t, International, c.Origin("INTERNACIONAL/ INTERNATIONAL"))
	assert.Equal(t, OriginNone, c.Origin(""))
}

func TestPeriod(t *testing.T) {
	p := Period{Year: 2024, Month: 3}
	assert.Equal(t, "2024-03", p.String())
	assert.Equal(t, "2024-03-01", p.Time().Format(dateKeyLayout))

	annual := Period{Year: 2024}
	assert.Equal(t, "2024", annual.String())
	assert.Equal(t, "2024-01-01", annual.Time().Format(dateKeyLayout))
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(config.DefaultDataConfig().GetNames())

	assert.Equal(t, "Mérida", n.Canonical("MERIDA"))
	assert.Equal(t, "San José del Cabo", n.Canonical("SAN JOSE DEL CABO"))
	assert.Equal(t, "Acapulco", n.Canonical("ACAPULCO"))
	assert.Equal(t, "Toluca", n.Canonical("  toluca "))
	assert.Equal(t, "Cancún", n.Canonical("CANCUN"))
}

func TestMonthLabeler(t *testing.T) {
	label := MonthLabeler(config.DefaultDataConfig().MonthNames)

	assert.Equal(t, "Ene.", label("1"))
	assert.Equal(t, "Dic.", label("12"))
	assert.Equal(t, "13", label("13"))
	assert.Equal(t, "TOTAL", label("TOTAL"))
}

func TestFilter(t *testing.T) {
	records := []Record{
		{Airport: "ACAPULCO", Period: Period{2023, 1}, Category: Passengers, Origin: Domestic, Total: 10},
		{Airport: "ACAPULCO", Period: Period{2024, 1}, Category: Passengers, Origin: International, Total: 0},
		{Airport: "CANCUN", Period: Period{2024, 1}, Category: Operations, Origin: Domestic, Total: 5},
	}

	got := Filter(records, Predicates{Airport: "ACAPULCO"})
	assert.Len(t, got, 2)

	got = Filter(records, Predicates{Airport: "ACAPULCO", NonZero: true})
	assert.Len(t, got, 1)

	got = Filter(records, Predicates{Years: []int{2024}, Category: Operations})
	assert.Equal(t, []Record{records[2]}, got)

	got = Filter(records, Predicates{Airport: "TOLUCA"})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []string{"ACAPULCO", "CANCUN"}, Airports(records))
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567, "1.23M"},
		{123456, "123k"},
		{12345, "12.3k"},
		{1234, "1,234"},
		{999, "999"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCompact(tt.in))
	}
	assert.Equal(t, "1,234,567", FormatThousands(1234567.4))
}
