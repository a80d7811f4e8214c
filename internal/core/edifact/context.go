package edifact

import (
	"regexp"
	"strconv"
	"time"
)

var (
	branchPattern = regexp.MustCompile(`\+` + QualifierBranch + `\+(\d+)`)
	periodPattern = regexp.MustCompile(`:(\d{8})`)
)

// ScanContext is the header state of one decode run: the branch and period
// most recently seen. It is owned by a single run and never reset mid-scan.
type ScanContext struct {
	branch    int64
	hasBranch bool
	period    time.Time
	hasPeriod bool
}

// Branch returns the active branch and whether one has been seen.
func (c *ScanContext) Branch() (int64, bool) {
	return c.branch, c.hasBranch
}

// Period returns the active sales period and whether one has been seen.
func (c *ScanContext) Period() (time.Time, bool) {
	return c.period, c.hasPeriod
}

// Complete reports whether both branch and period are known.
func (c *ScanContext) Complete() bool {
	return c.hasBranch && c.hasPeriod
}

// SetBranch takes the digit run after "+162+" in a location segment. A
// segment without one leaves the previous branch in place.
func (c *ScanContext) SetBranch(seg Segment) bool {
	m := branchPattern.FindStringSubmatch(string(seg))
	if m == nil {
		return false
	}
	branch, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return false
	}
	c.branch, c.hasBranch = branch, true
	return true
}

// SetPeriod takes the first YYYYMMDD token after a colon in a date segment.
// A missing token or an impossible calendar date is a no-op.
func (c *ScanContext) SetPeriod(seg Segment) bool {
	m := periodPattern.FindStringSubmatch(string(seg))
	if m == nil {
		return false
	}
	period, err := time.ParseInLocation("20060102", m[1], time.UTC)
	if err != nil {
		return false
	}
	c.period, c.hasPeriod = period, true
	return true
}
