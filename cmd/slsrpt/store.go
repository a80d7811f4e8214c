package main

import (
	"fmt"

	"github.com/aevon-lab/slsrpt-ingest/internal/core/config"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage/postgres"
	"github.com/aevon-lab/slsrpt-ingest/internal/ingestion"
	"github.com/aevon-lab/slsrpt-ingest/internal/migrations"
)

// openStore connects to PostgreSQL, runs migrations and prepares statements.
func openStore(db config.DatabaseConfig) (*postgres.Adapter, error) {
	adapter, err := postgres.NewAdapter(db.DSN, db.MaxOpenConns, db.MaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := migrations.RunMigrations(adapter.DB(), db.AutoMigrate); err != nil {
		_ = adapter.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}

	if err := adapter.Prepare(); err != nil {
		_ = adapter.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return adapter, nil
}

func ingestionOptions(c *config.Config) ingestion.Options {
	return ingestion.Options{
		BatchSize:      c.Ingestion.BatchSize,
		BatchWorkers:   c.Ingestion.BatchWorkers,
		DuplicateGuard: c.Ingestion.DuplicateGuard,
		MaxBodySizeMB:  c.Server.MaxBodySizeMB,
	}
}
