package v1

import (
	"encoding/json"
	"fmt"
	"time"
)

// PeriodLayout is the wire and storage layout of a sales period.
const PeriodLayout = "2006-01-02"

// SalesRecord is one normalized sales fact: what a branch sold and took back
// for one product on one day.
type SalesRecord struct {
	// Branch is the store (sucursal) identifier taken from the LOC+162 segment.
	Branch int64 `json:"branch"`

	// Period is the calendar day the figures belong to, at UTC midnight.
	Period time.Time `json:"-"`

	// ProductCode is the EAN of the line item. EAN-13 does not fit in int32.
	ProductCode int64 `json:"product_code"`

	UnitsSold     int64 `json:"units_sold"`
	UnitsReturned int64 `json:"units_returned"`

	// Net is UnitsSold - UnitsReturned. It is negative when returns exceed sales.
	Net int64 `json:"net"`
}

type salesRecordJSON struct {
	Branch        int64  `json:"branch"`
	Period        string `json:"period"`
	ProductCode   int64  `json:"product_code"`
	UnitsSold     int64  `json:"units_sold"`
	UnitsReturned int64  `json:"units_returned"`
	Net           int64  `json:"net"`
}

// MarshalJSON renders Period as YYYY-MM-DD.
func (r SalesRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(salesRecordJSON{
		Branch:        r.Branch,
		Period:        r.Period.Format(PeriodLayout),
		ProductCode:   r.ProductCode,
		UnitsSold:     r.UnitsSold,
		UnitsReturned: r.UnitsReturned,
		Net:           r.Net,
	})
}

// UnmarshalJSON accepts the layout produced by MarshalJSON.
func (r *SalesRecord) UnmarshalJSON(b []byte) error {
	var raw salesRecordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	period, err := ParsePeriod(raw.Period)
	if err != nil {
		return err
	}
	*r = SalesRecord{
		Branch:        raw.Branch,
		Period:        period,
		ProductCode:   raw.ProductCode,
		UnitsSold:     raw.UnitsSold,
		UnitsReturned: raw.UnitsReturned,
		Net:           raw.Net,
	}
	return nil
}

// ParsePeriod parses a YYYY-MM-DD string into a UTC date.
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.ParseInLocation(PeriodLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return t, nil
}

// Validate ensures the record is internally consistent before it is persisted.
func (r *SalesRecord) Validate() error {
	if r.Branch <= 0 {
		return fmt.Errorf("branch is required")
	}

	if r.Period.IsZero() {
		return fmt.Errorf("period is required")
	}

	if r.ProductCode <= 0 {
		return fmt.Errorf("product_code is required")
	}

	if r.UnitsSold < 0 || r.UnitsReturned < 0 {
		return fmt.Errorf("quantities must be non-negative")
	}

	if r.Net != r.UnitsSold-r.UnitsReturned {
		return fmt.Errorf("net %d does not match units_sold - units_returned", r.Net)
	}

	return nil
}
