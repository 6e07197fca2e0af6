package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat is a float64 that unmarshals from a JSON number, a string-encoded
// number, null, or an empty string. Anything malformed coerces to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(trimmed)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	*f = FlexFloat(CoerceFloat(raw))
	return nil
}

// RawStockRecord is a snapshot row as delivered by the persistence
// collaborator: numeric fields may arrive as empty strings, "null", or
// string-encoded numbers. CoerceStockRecord is the single place where these
// are normalized; classification logic never sees a raw row.
type RawStockRecord struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	CurrentStock  string `json:"current_stock"`
	TransitStock  string `json:"transit_stock"`
	Cost          string `json:"cost"`
	Price         string `json:"price"`
	CoverageDays  string `json:"coverage_days"`
	AvgDailySales string `json:"avg_daily_sales"`
	UnitsSold60d  string `json:"units_sold_60d"`
	Revenue60d    string `json:"revenue_60d"`
	Profit60d     string `json:"profit_60d"`
	ABCClass      string `json:"abc_class"`
	StatusLabel   string `json:"status_label"`
	SupplierName  string `json:"supplier_name"`
	Trend         string `json:"trend"`
	Priority      string `json:"priority"`
	Alert         string `json:"alert"`
}

// CoerceFloat parses a loosely-encoded numeric field. Empty, "null" and
// unparseable values all coerce to 0; comma decimal separators are accepted.
func CoerceFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nan") {
		return 0
	}

	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}

// CoerceNonNegative is CoerceFloat with a zero floor, for fields whose
// invariant is "never negative" (stock levels, prices, sales rates).
func CoerceNonNegative(raw string) float64 {
	v := CoerceFloat(raw)
	if v < 0 {
		return 0
	}

	return v
}

// CoerceStockRecord converts a raw row into a validated StockRecord,
// defaulting every malformed field rather than rejecting the row.
func CoerceStockRecord(raw RawStockRecord) StockRecord {
	rec := StockRecord{
		ID:            strings.TrimSpace(raw.ID),
		Description:   strings.TrimSpace(raw.Description),
		CurrentStock:  CoerceNonNegative(raw.CurrentStock),
		TransitStock:  CoerceNonNegative(raw.TransitStock),
		Cost:          CoerceNonNegative(raw.Cost),
		Price:         CoerceNonNegative(raw.Price),
		CoverageDays:  CoerceNonNegative(raw.CoverageDays),
		AvgDailySales: CoerceNonNegative(raw.AvgDailySales),
		UnitsSold60d:  CoerceNonNegative(raw.UnitsSold60d),
		Revenue60d:    CoerceFloat(raw.Revenue60d),
		Profit60d:     CoerceFloat(raw.Profit60d),
		SupplierName:  strings.TrimSpace(raw.SupplierName),
		Trend:         strings.ToLower(strings.TrimSpace(raw.Trend)),
		Priority:      strings.TrimSpace(raw.Priority),
		Alert:         strings.TrimSpace(raw.Alert),
	}

	// Stock with no sales lasts forever at the current pace; any stored
	// coverage figure for such a SKU is stale division leftovers.
	if rec.AvgDailySales == 0 && rec.CurrentStock > 0 {
		rec.CoverageDays = CoverageInfinite
	}

	// Optional labels: keep what the store sent when present, the
	// classifier recomputes them anyway when absent.
	if abc := strings.TrimSpace(raw.ABCClass); abc != "" {
		rec.ABCClass = NormalizeABCClass(abc)
	}
	if status := strings.TrimSpace(raw.StatusLabel); status != "" {
		rec.StatusLabel = NormalizeStatus(status)
	}

	return rec
}
