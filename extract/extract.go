// Package extract maps fixed positions in the rendered text index to named raw values
package extract

import (
	"golang.org/x/exp/slices"
)

// Missing is returned for positions outside the index
const Missing = "no data"

// Field names as published to the store
const (
	MSTRPrice       = "mstrPrice"
	MarketCap       = "marketCap"
	EnterpriseValue = "enterpriseValue"
	BTCReserve      = "btcReserve"
	BTCPrice        = "btcPrice"
	BTCQuantity     = "btcQuantity"
	Debt            = "debt"
)

// FieldMap maps a field name to its 1-based position in the text index
type FieldMap map[string]int

// DefaultFieldMap matches the current layout of the analytics page
var DefaultFieldMap = FieldMap{
	MSTRPrice:       27,
	MarketCap:       340,
	EnterpriseValue: 90,
	BTCReserve:      66,
	BTCPrice:        12,
	BTCQuantity:     42,
	Debt:            75,
}

// Names returns the mapped field names in a stable order
func (m FieldMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Raw holds the raw text found for each field
type Raw map[string]string

// Get returns the entry at the 1-based index, or Missing when out of range
func Get(seq []string, index int) string {
	if index <= 0 || index > len(seq) {
		return Missing
	}
	return seq[index-1]
}

// Extract looks up every field of m in seq
func Extract(seq []string, m FieldMap) Raw {
	raw := make(Raw, len(m))
	for name, index := range m {
		raw[name] = Get(seq, index)
	}
	return raw
}
