package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage"
	"github.com/aevon-lab/slsrpt-ingest/internal/ingestion"
	"github.com/aevon-lab/slsrpt-ingest/internal/scheduler"
	"github.com/aevon-lab/slsrpt-ingest/internal/source"
	"github.com/spf13/cobra"
)

var pullDay string

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download and ingest one day's document from the EDI portal",
	Long: `Pull logs into the EDI portal, exports the documents received on one UTC
day (today by default), and ingests the sales report found in the archive.

A period that is already stored is reported and skipped, not treated as a failure.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVar(&pullDay, "day", "", "Download day as YYYY-MM-DD (default today, UTC)")
}

func runPull(cmd *cobra.Command, args []string) error {
	if !cfg.Source.Configured() {
		return errors.New("source.user and source.password are required for pull")
	}

	day := time.Now().UTC()
	if pullDay != "" {
		d, err := v1.ParsePeriod(pullDay)
		if err != nil {
			return fmt.Errorf("invalid --day: %w", err)
		}
		day = d
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	pull := scheduler.NewScheduler(
		cfg.Scheduler.SchedulerInterval(),
		cfg.Scheduler.PeriodLagDays,
		source.NewClient(cfg.Source),
		ingestion.NewService(store, ingestionOptions(cfg)),
		store,
	)

	report, err := pull.RunFor(cmd.Context(), day)
	if errors.Is(err, storage.ErrPeriodExists) {
		slog.Info("Period already stored, nothing to do", "reason", err)
		return nil
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if report.FailedBatches > 0 {
		return fmt.Errorf("%d of %d batches failed", report.FailedBatches, len(report.Batches))
	}
	return nil
}
