package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid summary query")

// Service implements the read-side summaries over stored sales facts.
type Service struct {
	store storage.SalesStore
}

// NewService creates a new projection service.
func NewService(store storage.SalesStore) *Service {
	return &Service{store: store}
}

// QuerySummary rolls the facts of one period up by branch or by product.
func (s *Service) QuerySummary(ctx context.Context, req SummaryQueryRequest) (*SummaryQueryResponse, error) {
	period, err := v1.ParsePeriod(req.Period)
	if err != nil {
		return nil, fmt.Errorf("%w: period must be YYYY-MM-DD", ErrInvalidQuery)
	}
	if req.Branch != nil && *req.Branch <= 0 {
		return nil, fmt.Errorf("%w: branch must be positive", ErrInvalidQuery)
	}

	groupBy := req.GroupBy
	if groupBy == "" {
		groupBy = GroupByBranch
	}

	var keyFn func(v1.SalesRecord) int64
	switch groupBy {
	case GroupByBranch:
		keyFn = func(r v1.SalesRecord) int64 { return r.Branch }
	case GroupByProduct:
		keyFn = func(r v1.SalesRecord) int64 { return r.ProductCode }
	default:
		return nil, fmt.Errorf("%w: unsupported group_by %q", ErrInvalidQuery, groupBy)
	}

	records, err := s.store.ListByPeriod(ctx, period, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("list sales for %s: %w", req.Period, err)
	}

	slog.Debug("[Projection] Summary computed",
		"period", req.Period,
		"group_by", groupBy,
		"records", len(records),
	)

	return &SummaryQueryResponse{
		Period:  period.Format(v1.PeriodLayout),
		Branch:  req.Branch,
		GroupBy: groupBy,
		Rows:    rollupBy(records, keyFn),
		Total:   rollupTotal(records),
	}, nil
}
