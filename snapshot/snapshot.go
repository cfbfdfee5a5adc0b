// Package snapshot builds the unit of publication: the scraped metrics plus
// the derived mNAV and USD reserve figures and an update time.
package snapshot

import (
	"math"
	"time"

	"mnavtracker/extract"
)

// Derived field names
const (
	MNAVField       = "mnav"
	USDReserveField = "usdReserve"
	UpdateTimeField = "updatetime"
)

// jst is the fixed UTC+9 zone the dashboard displays
var jst = time.FixedZone("JST", 9*60*60)

// TimeLayout is abbreviated month, day, year, 24-hour time and a literal zone token
const TimeLayout = "Jan 02, 2006, 15:04 JST"

// Snapshot is immutable once built
type Snapshot struct {
	MSTRPrice       float64 `json:"mstrPrice"`
	MarketCap       float64 `json:"marketCap"`
	EnterpriseValue float64 `json:"enterpriseValue"`
	BTCReserve      float64 `json:"btcReserve"`
	BTCPrice        float64 `json:"btcPrice"`
	BTCQuantity     float64 `json:"btcQuantity"`
	Debt            float64 `json:"debt"`
	MNAV            float64 `json:"mnav"`
	USDReserve      float64 `json:"usdReserve"`
	UpdateTime      string  `json:"updatetime"`
}

// Build computes the derived metrics from normalized values and stamps the time
func Build(values map[string]float64, now time.Time) Snapshot {
	s := Snapshot{
		MSTRPrice:       values[extract.MSTRPrice],
		MarketCap:       values[extract.MarketCap],
		EnterpriseValue: values[extract.EnterpriseValue],
		BTCReserve:      values[extract.BTCReserve],
		BTCPrice:        values[extract.BTCPrice],
		BTCQuantity:     values[extract.BTCQuantity],
		Debt:            values[extract.Debt],
	}
	s.MNAV = MNAV(s.EnterpriseValue, s.BTCReserve)
	s.USDReserve = USDReserve(s.MarketCap, s.Debt, s.EnterpriseValue)
	s.UpdateTime = Timestamp(now)
	return s
}

// Fields returns every snapshot value keyed by its published name
func (s Snapshot) Fields() map[string]any {
	return map[string]any{
		extract.MSTRPrice:       s.MSTRPrice,
		extract.MarketCap:       s.MarketCap,
		extract.EnterpriseValue: s.EnterpriseValue,
		extract.BTCReserve:      s.BTCReserve,
		extract.BTCPrice:        s.BTCPrice,
		extract.BTCQuantity:     s.BTCQuantity,
		extract.Debt:            s.Debt,
		MNAVField:               s.MNAV,
		USDReserveField:         s.USDReserve,
		UpdateTimeField:         s.UpdateTime,
	}
}

// MNAV is enterprise value over reserve value rounded to 4 places, 0 when reserve is 0
func MNAV(enterpriseValue, btcReserve float64) float64 {
	if btcReserve == 0 {
		return 0
	}
	return math.Round(enterpriseValue/btcReserve*1e4) / 1e4
}

// USDReserve is market cap plus debt minus enterprise value
func USDReserve(marketCap, debt, enterpriseValue float64) float64 {
	return marketCap + debt - enterpriseValue
}

// Timestamp formats now in JST
func Timestamp(now time.Time) string {
	return now.In(jst).Format(TimeLayout)
}
