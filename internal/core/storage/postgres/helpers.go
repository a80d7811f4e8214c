package postgres

import (
	"database/sql"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
)

// periodArg normalizes a period to UTC midnight before it is bound to a DATE
// column, so callers passing a timestamp with a clock part still match.
func periodArg(period time.Time) time.Time {
	y, m, d := period.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scanSalesRow scans a single row from a fact_sales query result.
// The driver may hand DATE values back in a non-UTC location; the period is
// re-anchored at UTC midnight.
func scanSalesRow(rows *sql.Rows) (v1.SalesRecord, error) {
	var (
		rec    v1.SalesRecord
		period time.Time
	)

	err := rows.Scan(
		&rec.Branch,
		&period,
		&rec.ProductCode,
		&rec.UnitsSold,
		&rec.UnitsReturned,
		&rec.Net,
	)
	if err != nil {
		return v1.SalesRecord{}, fmt.Errorf("failed to scan sales row: %w", err)
	}

	rec.Period = periodArg(period)
	return rec, nil
}
