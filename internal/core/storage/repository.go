package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
)

// ErrPeriodExists is returned when sales facts for a period are already stored.
// A write that hits it must be abandoned as a whole.
var ErrPeriodExists = errors.New("sales for period already exist")

// SalesStore defines the interface for storing and retrieving sales facts.
type SalesStore interface {
	// PeriodExists reports whether any fact is stored for period.
	// It backs the duplicate guard that runs before every ingest.
	PeriodExists(ctx context.Context, period time.Time) (bool, error)

	// SaveBatch writes one batch atomically and returns the rows inserted.
	// runID tags every row with the ingest run that produced it.
	SaveBatch(ctx context.Context, runID string, records []v1.SalesRecord) (int64, error)

	// ListByPeriod returns the facts of one period ordered by branch and product.
	// A nil branch lists every branch.
	ListByPeriod(ctx context.Context, period time.Time, branch *int64) ([]v1.SalesRecord, error)
}
