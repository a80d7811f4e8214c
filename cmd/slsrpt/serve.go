package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/slsrpt-ingest/internal/ingestion"
	"github.com/aevon-lab/slsrpt-ingest/internal/projection"
	"github.com/aevon-lab/slsrpt-ingest/internal/scheduler"
	"github.com/aevon-lab/slsrpt-ingest/internal/server"
	"github.com/aevon-lab/slsrpt-ingest/internal/source"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the optional daily pull scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	ingestionSvc := ingestion.NewService(store, ingestionOptions(cfg))

	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store.DB(), cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projection.NewService(store).RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Scheduler.Enabled {
		pull := scheduler.NewScheduler(
			cfg.Scheduler.SchedulerInterval(),
			cfg.Scheduler.PeriodLagDays,
			source.NewClient(cfg.Source),
			ingestionSvc,
			store,
		)
		go func() {
			if err := pull.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Pull scheduler disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("Signal received, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
