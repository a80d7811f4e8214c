// Package scheduler pulls the daily sales report from the EDI portal and
// hands it to ingestion.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage"
	"github.com/aevon-lab/slsrpt-ingest/internal/ingestion"
	"github.com/aevon-lab/slsrpt-ingest/internal/source"
)

// DocumentSource returns the sales-report text received on a given UTC day.
type DocumentSource interface {
	Fetch(ctx context.Context, day time.Time) (string, error)
}

// Ingester decodes and stores one document.
type Ingester interface {
	Ingest(ctx context.Context, raw string) (*ingestion.IngestReport, error)
}

// PeriodChecker answers whether a period is already stored.
type PeriodChecker interface {
	PeriodExists(ctx context.Context, period time.Time) (bool, error)
}

// Scheduler runs the pull on a periodic interval.
// Each tick is independent: it downloads the current day and ingests it.
type Scheduler struct {
	interval  time.Duration
	periodLag int
	source    DocumentSource
	ingester  Ingester
	periods   PeriodChecker
	now       func() time.Time
}

// NewScheduler creates a pull scheduler. periods may be nil, in which case the
// download happens on every tick and only ingestion guards against duplicates.
func NewScheduler(
	interval time.Duration,
	periodLagDays int,
	src DocumentSource,
	ingester Ingester,
	periods PeriodChecker,
) *Scheduler {
	return &Scheduler{
		interval:  interval,
		periodLag: periodLagDays,
		source:    src,
		ingester:  ingester,
		periods:   periods,
		now:       time.Now,
	}
}

// Start pulls once immediately and then on every tick.
// Runs until context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting daily pull scheduler",
		"interval", s.interval,
		"period_lag_days", s.periodLag,
	)

	s.pull(ctx)

	for {
		select {
		case <-ticker.C:
			s.pull(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

// RunOnce downloads today's document and ingests it.
func (s *Scheduler) RunOnce(ctx context.Context) (*ingestion.IngestReport, error) {
	return s.RunFor(ctx, s.now())
}

// RunFor downloads the document received on day (UTC) and ingests it.
//
// When the expected period is already stored the download is skipped and the
// error wraps storage.ErrPeriodExists.
func (s *Scheduler) RunFor(ctx context.Context, day time.Time) (*ingestion.IngestReport, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	period := day.AddDate(0, 0, -s.periodLag)

	if s.periods != nil {
		exists, err := s.periods.PeriodExists(ctx, period)
		if err != nil {
			return nil, fmt.Errorf("check period %s: %w", period.Format(v1.PeriodLayout), err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", storage.ErrPeriodExists, period.Format(v1.PeriodLayout))
		}
	}

	raw, err := s.source.Fetch(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", day.Format(v1.PeriodLayout), err)
	}

	return s.ingester.Ingest(ctx, raw)
}

func (s *Scheduler) pull(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	switch {
	case err == nil:
		slog.Info("[Scheduler] Pull complete",
			"run_id", report.RunID,
			"periods", report.Periods,
			"written", report.Written,
			"failed_batches", report.FailedBatches,
		)
	case errors.Is(err, storage.ErrPeriodExists):
		slog.Info("[Scheduler] Period already stored, nothing to do", "reason", err)
	case errors.Is(err, source.ErrNoDocument):
		slog.Warn("[Scheduler] No sales report available yet", "reason", err)
	case errors.Is(err, context.Canceled):
		slog.Info("[Scheduler] Pull interrupted by context cancellation")
	default:
		slog.Error("[Scheduler] Pull failed", "error", err)
	}
}
