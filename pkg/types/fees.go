package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// FeesBreakdown itemizes the out-the-door fees on a deal, persisted as JSONB.
// Keys mirror the line items dealers quote: doc_fee, destination_fee, tax,
// title_fee, registration_fee, other_fees.
type FeesBreakdown map[string]decimal.Decimal

// Total sums every fee line. Missing entries contribute nothing.
func (f FeesBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, fee := range f {
		total = total.Add(fee)
	}
	return total
}

// Value marshals the map into JSON for Postgres.
func (f FeesBreakdown) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map. Non-numeric values fail the scan rather
// than being silently zeroed; the write path only ever stores decimals.
func (f *FeesBreakdown) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("fees breakdown: unsupported scan type %T", value)
	}

	result := make(FeesBreakdown)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*f = result
	return nil
}
