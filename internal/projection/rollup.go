package projection

import (
	"sort"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/shopspring/decimal"
)

const returnRatePlaces = 4

// rollupBy groups records by the key returned from keyFn and sums their
// quantities. Rows come back ordered by key.
func rollupBy(records []v1.SalesRecord, keyFn func(v1.SalesRecord) int64) []SummaryRow {
	index := make(map[int64]int)
	rows := []SummaryRow{}

	for _, r := range records {
		k := keyFn(r)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, SummaryRow{Key: k})
		}
		addRecord(&rows[i], r)
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].Key < rows[b].Key })
	for i := range rows {
		rows[i].ReturnRate = returnRate(rows[i].UnitsSold, rows[i].UnitsReturned)
	}
	return rows
}

// rollupTotal sums every record into a single row with key 0.
func rollupTotal(records []v1.SalesRecord) SummaryRow {
	var total SummaryRow
	for _, r := range records {
		addRecord(&total, r)
	}
	total.ReturnRate = returnRate(total.UnitsSold, total.UnitsReturned)
	return total
}

func addRecord(row *SummaryRow, r v1.SalesRecord) {
	row.LineItems++
	row.UnitsSold += r.UnitsSold
	row.UnitsReturned += r.UnitsReturned
	row.Net += r.Net
}

// returnRate is returned/sold rounded to four places. Nothing sold gives zero.
func returnRate(sold, returned int64) decimal.Decimal {
	if sold == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(returned).
		DivRound(decimal.NewFromInt(sold), returnRatePlaces)
}
