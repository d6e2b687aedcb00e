package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/legal-digest/internal/config"
	"github.com/pkordes/legal-digest/internal/output"
)

var (
	cfgFile string
	ui      = output.New()
)

var rootCmd = &cobra.Command{
	Use:   "legaldigest",
	Short: "AI and Human Rights Hub - a directory of AI-related court cases",
	Long: `legaldigest serves the public case directory and the editors' dashboard,
and runs the operator tasks around it: database migrations, creating the
first superuser and listing tags.

Configuration comes from environment variables (DATABASE_URL, PORT,
LOG_LEVEL, ...) and an optional YAML file given with --config.`,
	Version:           version + " (" + commit + ")",
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables take precedence)")
	rootCmd.PersistentFlags().BoolVarP(&ui.Verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig reads the configuration and installs the JSON slog logger as
// the process default.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	// log/slog JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	return cfg, nil
}

// openPool connects to Postgres and verifies the connection.
// pgxpool.New does not open connections immediately, so Ping is what
// actually proves the database is reachable.
func openPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	ui.VerboseLog("database connection established")
	return pool, nil
}

// withPool loads the config, opens the pool and runs fn with both.
func withPool(ctx context.Context, fn func(context.Context, config.Config, *pgxpool.Pool) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}
