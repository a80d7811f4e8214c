// Package edifact decodes SLSRPT sales-report messages into sales records.
//
// A message is a flat run of segments terminated by an apostrophe. Header
// segments (branch location, date) set a scan context that applies to every
// line item that follows them until another header segment replaces it.
package edifact

import "strings"

// Protocol constants shared with the upstream document convention.
const (
	// SegmentTerminator ends every segment in the message.
	SegmentTerminator = "'"

	// QualifierUnitsSold marks the QTY composite carrying units sold.
	QualifierUnitsSold = "153"
	// QualifierUnitsReturned marks the QTY composite carrying units returned.
	QualifierUnitsReturned = "77E"
	// QualifierBranch is the LOC qualifier for the reporting branch.
	QualifierBranch = "162"
)

// Segment is one trimmed, non-empty fragment of a message.
type Segment string

// Tag is the classification of a segment by its prefix.
type Tag int

const (
	TagOther Tag = iota
	TagBranchLocation
	TagDateTime
	TagLineItem
	TagQuantity
)

func (t Tag) String() string {
	switch t {
	case TagBranchLocation:
		return "LOC+" + QualifierBranch
	case TagDateTime:
		return "DTM"
	case TagLineItem:
		return "LIN"
	case TagQuantity:
		return "QTY"
	default:
		return "other"
	}
}

var branchPrefix = "LOC+" + QualifierBranch

// Split cuts raw message text into segments. Fragments are trimmed and empty
// ones, including the one after the final terminator, are dropped.
func Split(raw string) []Segment {
	parts := strings.Split(raw, SegmentTerminator)
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		segs = append(segs, Segment(p))
	}
	return segs
}

// Classify returns the tag of seg. Unknown prefixes, including LOC segments
// with a qualifier other than the branch one, are TagOther.
func Classify(seg Segment) Tag {
	s := string(seg)
	switch {
	case strings.HasPrefix(s, branchPrefix):
		return TagBranchLocation
	case strings.HasPrefix(s, "DTM"):
		return TagDateTime
	case strings.HasPrefix(s, "LIN"):
		return TagLineItem
	case strings.HasPrefix(s, "QTY"):
		return TagQuantity
	default:
		return TagOther
	}
}

// isBoundary reports whether a segment with this tag starts a new block and
// so ends the lookahead window of the current line item.
func isBoundary(tag Tag) bool {
	return tag == TagLineItem || tag == TagBranchLocation
}
