package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aevon-lab/slsrpt-ingest/internal/core/config"
	"github.com/aevon-lab/slsrpt-ingest/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "slsrpt",
	Short: "Decode EDIFACT SLSRPT sales reports into per-branch sales facts",
	Long: `slsrpt decodes EDIFACT SLSRPT documents into one sales fact per
branch, day and product, and stores them in PostgreSQL.

Available subcommands:
  serve   - Run the HTTP API and the optional daily pull scheduler
  decode  - Decode a document file and print the records as JSON
  pull    - Download and ingest one day's document from the EDI portal
  migrate - Apply, inspect or roll back database migrations`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to configuration file (empty uses defaults and SLSRPT_* env vars)")

	rootCmd.AddCommand(serveCmd, decodeCmd, pullCmd, migrateCmd)
}

// setup loads config and installs the process logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(loaded.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger)

	cfg = loaded
	logCloser = closer
	slog.Debug("Loaded config", "path", configPath, "mode", cfg.Server.Mode)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
