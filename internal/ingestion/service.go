package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/edifact"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options tunes how decoded records are written.
type Options struct {
	BatchSize      int
	BatchWorkers   int
	DuplicateGuard bool
	MaxBodySizeMB  int
}

type Service struct {
	store            storage.SalesStore
	metrics          *Metrics
	batchSize        int
	batchWorkers     int
	duplicateGuard   bool
	maxBodySizeBytes int
	newRunID         func() string
}

func NewService(repo storage.SalesStore, opts Options) *Service {
	if repo == nil {
		panic("ingestion: store must not be nil")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 1
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            repo,
		metrics:          NewMetrics(),
		batchSize:        opts.BatchSize,
		batchWorkers:     opts.BatchWorkers,
		duplicateGuard:   opts.DuplicateGuard,
		maxBodySizeBytes: opts.MaxBodySizeMB * 1024 * 1024,
		newRunID:         func() string { return uuid.NewString() },
	}
}

// Metrics exposes the service counters.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/slsrpt", s.IngestHandler)
	r.GET("/v1/sales", s.ListSalesHandler)
	r.GET("/v1/metrics", s.MetricsHandler)
}

// BatchResult is the outcome of writing one batch. A failed batch does not
// affect the others.
type BatchResult struct {
	Index   int    `json:"index"`
	Records int    `json:"records"`
	Written int64  `json:"written"`
	Error   string `json:"error,omitempty"`
}

// IngestReport summarizes one ingest run.
type IngestReport struct {
	RunID         string        `json:"run_id"`
	Periods       []string      `json:"periods"`
	Stats         edifact.Stats `json:"stats"`
	Batches       []BatchResult `json:"batches"`
	Rejected      int           `json:"rejected_invalid"`
	Written       int64         `json:"written"`
	FailedBatches int           `json:"failed_batches"`
}

// Ingest decodes raw, guards against periods that are already stored and
// writes the records in batches.
//
// A document that yields no records is not an error: the report comes back
// with nothing written. When the duplicate guard finds any decoded period in
// the store, nothing is written and the error wraps storage.ErrPeriodExists.
// Records that fail validation are left out and counted, so they never fail
// the batch they would have landed in. Batch failures are reported per batch
// in the report, not as an error.
func (s *Service) Ingest(ctx context.Context, raw string) (*IngestReport, error) {
	start := time.Now()
	res := edifact.Decode(raw)
	s.metrics.RecordDecode(res.Stats)

	records, rejected := splitValid(res.Records)
	report := &IngestReport{
		RunID:    s.newRunID(),
		Periods:  distinctPeriods(records),
		Stats:    res.Stats,
		Batches:  []BatchResult{},
		Rejected: len(rejected),
	}

	logger := slog.With("run_id", report.RunID)
	logger.Info("[Ingestion] Document decoded",
		"segments", res.Stats.Segments,
		"records", res.Stats.RecordsEmitted,
		"dropped", res.Stats.Dropped(),
		"malformed_quantities", res.Stats.MalformedQuantities,
		"repeated_qualifiers", res.Stats.RepeatedQualifiers,
	)
	if res.Stats.Dropped() > 0 {
		logger.Warn("[Ingestion] Line items dropped",
			"no_product", res.Stats.DroppedNoProduct,
			"no_context", res.Stats.DroppedNoContext,
		)
	}

	if len(rejected) > 0 {
		s.metrics.RecordsRejected(len(rejected))
		for _, r := range rejected {
			logger.Warn("[Ingestion] Record rejected",
				"branch", r.record.Branch,
				"product_code", r.record.ProductCode,
				"error", r.err,
			)
		}
	}

	if len(records) == 0 {
		logger.Warn("[Ingestion] Document produced no records, nothing to write")
		return report, nil
	}

	if s.duplicateGuard {
		if err := s.guardPeriods(ctx, report.Periods); err != nil {
			s.metrics.DocumentRejected()
			return report, err
		}
	}

	s.writeBatches(ctx, report, records)

	logger.Info("[Ingestion] Run finished",
		"periods", report.Periods,
		"batches", len(report.Batches),
		"failed_batches", report.FailedBatches,
		"written", report.Written,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (s *Service) guardPeriods(ctx context.Context, periods []string) error {
	for _, p := range periods {
		period, err := v1.ParsePeriod(p)
		if err != nil {
			return fmt.Errorf("guard period %q: %w", p, err)
		}
		exists, err := s.store.PeriodExists(ctx, period)
		if err != nil {
			return fmt.Errorf("guard period %s: %w", p, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", storage.ErrPeriodExists, p)
		}
	}
	return nil
}

// writeBatches fans the batches out over at most batchWorkers goroutines.
// Results land at their batch index so the report keeps document order.
func (s *Service) writeBatches(ctx context.Context, report *IngestReport, records []v1.SalesRecord) {
	batches := chunk(records, s.batchSize)
	results := make([]BatchResult, len(batches))

	var g errgroup.Group
	g.SetLimit(s.batchWorkers)

	for i, batch := range batches {
		g.Go(func() error {
			results[i] = s.writeBatch(ctx, report.RunID, i, batch)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Error != "" {
			report.FailedBatches++
			continue
		}
		report.Written += r.Written
	}
	report.Batches = results
}

func (s *Service) writeBatch(ctx context.Context, runID string, index int, batch []v1.SalesRecord) BatchResult {
	result := BatchResult{Index: index, Records: len(batch)}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		s.metrics.BatchFailed()
		return result
	}

	n, err := s.store.SaveBatch(ctx, runID, batch)
	if err != nil {
		slog.Error("[Ingestion] Batch write failed",
			"run_id", runID,
			"batch", index,
			"records", len(batch),
			"error", err,
		)
		result.Error = err.Error()
		s.metrics.BatchFailed()
		return result
	}

	result.Written = n
	s.metrics.BatchWritten(n)
	return result
}

type rejectedRecord struct {
	record v1.SalesRecord
	err    error
}

// splitValid keeps document order for the records that pass Validate.
func splitValid(records []v1.SalesRecord) ([]v1.SalesRecord, []rejectedRecord) {
	valid := make([]v1.SalesRecord, 0, len(records))
	var rejected []rejectedRecord
	for _, r := range records {
		if err := r.Validate(); err != nil {
			rejected = append(rejected, rejectedRecord{record: r, err: err})
			continue
		}
		valid = append(valid, r)
	}
	return valid, rejected
}

func chunk(records []v1.SalesRecord, size int) [][]v1.SalesRecord {
	batches := make([][]v1.SalesRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// distinctPeriods returns the sorted distinct periods of records.
func distinctPeriods(records []v1.SalesRecord) []string {
	seen := make(map[string]struct{})
	periods := []string{}
	for _, r := range records {
		p := r.Period.Format(v1.PeriodLayout)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}

// IsDuplicate reports whether err came from the duplicate guard.
func IsDuplicate(err error) bool {
	return errors.Is(err, storage.ErrPeriodExists)
}
