package main

import (
	"database/sql"
	"fmt"

	"github.com/aevon-lab/slsrpt-ingest/internal/migrations"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, inspect or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			return migrations.RunMigrations(db, true)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			version, dirty, err := migrations.Status(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(migrations.Rollback)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd, migrateDownCmd)
}

// withDB opens a bare connection; migrations must run before the adapter
// can validate its schema.
func withDB(fn func(db *sql.DB) error) error {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(db)
}
