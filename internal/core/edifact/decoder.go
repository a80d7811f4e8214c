package edifact

import (
	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
)

// Stats counts what a decode run saw and what it had to drop. Drops are not
// errors; they are reported so operators can spot truncated documents.
type Stats struct {
	Segments       int `json:"segments"`
	LineItems      int `json:"line_items"`
	RecordsEmitted int `json:"records_emitted"`

	// DroppedNoProduct counts LIN segments without a product code.
	DroppedNoProduct int `json:"dropped_no_product"`
	// DroppedNoContext counts line items seen before a branch or period was known.
	DroppedNoContext int `json:"dropped_no_context"`
	// MalformedQuantities counts QTY values that were left at zero.
	MalformedQuantities int `json:"malformed_quantities"`
	// RepeatedQualifiers counts QTY values that overwrote an earlier value of
	// the same qualifier in one line item. The last value wins.
	RepeatedQualifiers int `json:"repeated_qualifiers"`

	BranchUpdates int `json:"branch_updates"`
	PeriodUpdates int `json:"period_updates"`
}

// Dropped is the number of line items that produced no record.
func (s Stats) Dropped() int {
	return s.DroppedNoProduct + s.DroppedNoContext
}

// Result is the output of one decode run.
type Result struct {
	Records []v1.SalesRecord
	Stats   Stats
}

// Decode splits raw into segments and decodes them.
func Decode(raw string) Result {
	return DecodeSegments(Split(raw))
}

// DecodeSegments scans segs with a single cursor. Header segments update the
// scan context; a line item consumes its QTY segments and hands the cursor
// back at the boundary segment, which is then classified on the next step.
//
// Decoding never fails. Records come out in line-item order.
func DecodeSegments(segs []Segment) Result {
	var (
		ctx   ScanContext
		res   Result
		stats = &res.Stats
	)
	stats.Segments = len(segs)

	for cursor := 0; cursor < len(segs); {
		seg := segs[cursor]
		switch Classify(seg) {
		case TagBranchLocation:
			if ctx.SetBranch(seg) {
				stats.BranchUpdates++
			}
			cursor++
		case TagDateTime:
			if ctx.SetPeriod(seg) {
				stats.PeriodUpdates++
			}
			cursor++
		case TagLineItem:
			stats.LineItems++
			agg, next, ok := aggregateLineItem(segs, cursor)
			cursor = next
			if !ok {
				stats.DroppedNoProduct++
				continue
			}
			stats.MalformedQuantities += agg.MalformedQuantities
			stats.RepeatedQualifiers += agg.RepeatedQualifiers
			rec, ok := buildRecord(&ctx, agg)
			if !ok {
				stats.DroppedNoContext++
				continue
			}
			res.Records = append(res.Records, rec)
			stats.RecordsEmitted++
		default:
			cursor++
		}
	}

	return res
}

// buildRecord combines the active context with a finished line item. It
// emits nothing until both branch and period are known.
func buildRecord(ctx *ScanContext, agg LineAggregate) (v1.SalesRecord, bool) {
	branch, ok := ctx.Branch()
	if !ok {
		return v1.SalesRecord{}, false
	}
	period, ok := ctx.Period()
	if !ok {
		return v1.SalesRecord{}, false
	}
	return v1.SalesRecord{
		Branch:        branch,
		Period:        period,
		ProductCode:   agg.ProductCode,
		UnitsSold:     agg.UnitsSold,
		UnitsReturned: agg.UnitsReturned,
		Net:           agg.UnitsSold - agg.UnitsReturned,
	}, true
}
