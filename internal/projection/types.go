package projection

import (
	"github.com/shopspring/decimal"
)

// Grouping keys accepted by the summary query.
const (
	GroupByBranch  = "branch"
	GroupByProduct = "product"
)

// SummaryQueryRequest represents the query parameters for a period summary.
type SummaryQueryRequest struct {
	Period  string `form:"period" binding:"required"`
	Branch  *int64 `form:"branch"`
	GroupBy string `form:"group_by"` // default: "branch"
}

// SummaryRow is the rolled-up movement of one group within a period.
type SummaryRow struct {
	Key           int64           `json:"key"`
	LineItems     int             `json:"line_items"`
	UnitsSold     int64           `json:"units_sold"`
	UnitsReturned int64           `json:"units_returned"`
	Net           int64           `json:"net"`
	ReturnRate    decimal.Decimal `json:"return_rate"`
}

// SummaryQueryResponse represents the response for a summary query.
type SummaryQueryResponse struct {
	Period  string       `json:"period"`
	Branch  *int64       `json:"branch,omitempty"`
	GroupBy string       `json:"group_by"`
	Rows    []SummaryRow `json:"rows"`
	Total   SummaryRow   `json:"total"`
}
