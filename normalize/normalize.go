// Package normalize turns raw page text into scaled numeric metrics.
//
// Clean is total: every input yields a number, and any input that cannot be
// read as one yields 0. The per-field divisors reflect how the analytics page
// currently renders its figures and are not self-correcting.
package normalize

import (
	"strconv"
	"strings"

	"mnavtracker/extract"

	"golang.org/x/text/width"
)

// Divisors holds the unit-scale divisor for each field. Fields not listed are unscaled.
var Divisors = map[string]float64{
	extract.MarketCap:       10,
	extract.EnterpriseValue: 10,
	extract.BTCReserve:      10,
	extract.Debt:            10,
	extract.BTCPrice:        100,
}

// Clean extracts a number from the first line of text
func Clean(text string) float64 {
	if text == "" {
		return 0
	}

	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	// Full-width digits and points appear on the Japanese pages
	text = width.Narrow.String(text)

	var sb strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()

	if strings.Contains(cleaned, ".") {
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return v
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		// digits beyond int64 still read as a number
		v, ferr := strconv.ParseFloat(cleaned, 64)
		if ferr != nil {
			return 0
		}
		return v
	}
	return float64(n)
}

// Scale applies the field's divisor
func Scale(field string, value float64) float64 {
	if d, ok := Divisors[field]; ok && d != 0 {
		return value / d
	}
	return value
}

// Fields cleans and scales every raw value
func Fields(raw extract.Raw) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for name, text := range raw {
		out[name] = Scale(name, Clean(text))
	}
	return out
}
