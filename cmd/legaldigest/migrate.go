package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/legal-digest/internal/config"
	"github.com/pkordes/legal-digest/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the embedded SQL migrations.

Running bare 'legaldigest migrate' is the same as 'legaldigest migrate status'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), migrateStatusRun)
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), migrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), migrateDownRun)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), migrateStatusRun)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

// newProvider builds a goose provider over the embedded migrations.
// goose needs database/sql, so the pool is wrapped with the pgx stdlib adapter.
func newProvider(pool *pgxpool.Pool) (*goose.Provider, func(), error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create goose provider: %w", err)
	}
	return provider, func() { _ = db.Close() }, nil
}

func migrateUp(ctx context.Context, _ config.Config, pool *pgxpool.Pool) error {
	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(results) == 0 {
		ui.Info("Database is up to date.")
		return nil
	}
	for _, r := range results {
		ui.Success("Applied %s (%s)", r.Source.Path, r.Duration.Round(time.Millisecond))
	}
	return nil
}

func migrateDownRun(ctx context.Context, _ config.Config, pool *pgxpool.Pool) error {
	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	r, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	ui.Success("Rolled back %s", r.Source.Path)
	return nil
}

func migrateStatusRun(ctx context.Context, _ config.Config, pool *pgxpool.Pool) error {
	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	statuses, err := provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	table := ui.Table([]string{"Version", "Migration", "State", "Applied"})
	for _, s := range statuses {
		state, applied := "pending", ""
		if s.State == goose.StateApplied {
			state = "applied"
			applied = s.AppliedAt.Format("2006-01-02 15:04")
		}
		if err := table.Append([]string{
			fmt.Sprintf("%d", s.Source.Version),
			s.Source.Path,
			state,
			applied,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
