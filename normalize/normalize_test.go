package normalize

import (
	"testing"

	"mnavtracker/extract"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"thousands separator with second line", "1,234\nfoo", 1234},
		{"empty", "", 0},
		{"percent", "12.5%", 12.5},
		{"currency prefix", "$1,020.75", 1020.75},
		{"yen suffix", "¥2,150円", 2150},
		{"full width digits", "１２３．５", 123.5},
		{"sentinel", extract.Missing, 0},
		{"letters only", "N/A", 0},
		{"two points", "1.2.3", 0},
		{"lone point", ".", 0},
		{"leading point", ".5", 0.5},
		{"trailing point", "7.", 7},
		{"value on second line only", "label\n999", 0},
		{"huge integer", "123456789012345678901234", 123456789012345678901234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_IsTotal(t *testing.T) {
	inputs := []string{"", "\n", "\x00", "💰", "--", "1e10", "NaN", "Inf", "0x1F", "  42  "}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Clean(in) }, "input %q", in)
	}
	assert.Equal(t, float64(42), Clean("  42  "))
	assert.Equal(t, float64(110), Clean("1e10"))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 12.3, Scale(extract.MarketCap, 123))
	assert.Equal(t, 12.3, Scale(extract.EnterpriseValue, 123))
	assert.Equal(t, 12.3, Scale(extract.BTCReserve, 123))
	assert.Equal(t, 12.3, Scale(extract.Debt, 123))
	assert.Equal(t, 1.23, Scale(extract.BTCPrice, 123))
	assert.Equal(t, float64(123), Scale(extract.MSTRPrice, 123))
	assert.Equal(t, float64(123), Scale(extract.BTCQuantity, 123))
	assert.Equal(t, float64(123), Scale("unknown", 123))
}

func TestFields(t *testing.T) {
	raw := extract.Raw{
		extract.MSTRPrice:  "1234\nUSD",
		extract.MarketCap:  "5,000",
		extract.BTCPrice:   "10,500,000",
		extract.Debt:       extract.Missing,
		extract.BTCReserve: "",
	}

	got := Fields(raw)

	assert.Equal(t, map[string]float64{
		extract.MSTRPrice:  1234,
		extract.MarketCap:  500,
		extract.BTCPrice:   105000,
		extract.Debt:       0,
		extract.BTCReserve: 0,
	}, got)
}
