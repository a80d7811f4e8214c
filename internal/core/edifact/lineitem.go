package edifact

import (
	"regexp"
	"strconv"
	"strings"
)

var productPattern = regexp.MustCompile(`\+\+(\d+)`)

// LineAggregate is the quantities gathered for one line item. It lives only
// until it is turned into a record.
type LineAggregate struct {
	ProductCode   int64
	UnitsSold     int64
	UnitsReturned int64

	// MalformedQuantities counts QTY segments whose qualifier was known but
	// whose value could not be parsed. Their quantity keeps its default.
	MalformedQuantities int
	// RepeatedQualifiers counts values that replaced an earlier one of the
	// same qualifier within this line item.
	RepeatedQualifiers int

	seenSold, seenReturned bool
}

// aggregateLineItem reads the LIN segment at segs[i] and the QTY segments
// that follow it. It stops at the next LIN or LOC+162 segment without
// consuming it and returns that index so the caller resumes there.
//
// ok is false when the LIN segment has no product code; next is then i+1.
func aggregateLineItem(segs []Segment, i int) (agg LineAggregate, next int, ok bool) {
	code, ok := productCode(segs[i])
	if !ok {
		return LineAggregate{}, i + 1, false
	}
	agg.ProductCode = code

	j := i + 1
	for ; j < len(segs); j++ {
		tag := Classify(segs[j])
		if isBoundary(tag) {
			break
		}
		if tag != TagQuantity {
			continue
		}
		applyQuantity(&agg, segs[j])
	}
	return agg, j, true
}

func productCode(seg Segment) (int64, bool) {
	m := productPattern.FindStringSubmatch(string(seg))
	if m == nil {
		return 0, false
	}
	code, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return code, true
}

// applyQuantity folds one QTY segment into agg. The qualifier is the first
// composite component, or the second one when a value follows it, so
// "QTY+153:20", "QTY+153:20:PCE" and "QTY+1:153:20" all read as 20 units
// sold while "QTY+999:153" is an unknown qualifier. Later segments overwrite
// earlier ones.
func applyQuantity(agg *LineAggregate, seg Segment) {
	payload := strings.TrimPrefix(string(seg), "QTY+")
	comps := strings.Split(payload, ":")

	k := -1
	switch {
	case isKnownQualifier(comps[0]):
		k = 0
	case len(comps) >= 3 && isKnownQualifier(comps[1]):
		k = 1
	}
	if k < 0 {
		return
	}

	qualifier := comps[k]
	var raw string
	if k+1 < len(comps) {
		raw = comps[k+1]
	}
	value, ok := parseQuantity(raw)
	if !ok {
		agg.MalformedQuantities++
		return
	}
	if qualifier == QualifierUnitsSold {
		if agg.seenSold {
			agg.RepeatedQualifiers++
		}
		agg.UnitsSold, agg.seenSold = value, true
		return
	}
	if agg.seenReturned {
		agg.RepeatedQualifiers++
	}
	agg.UnitsReturned, agg.seenReturned = value, true
}

func isKnownQualifier(c string) bool {
	return c == QualifierUnitsSold || c == QualifierUnitsReturned
}

// parseQuantity accepts a plain run of decimal digits only.
func parseQuantity(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
