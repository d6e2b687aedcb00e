package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/legal-digest/internal/config"
	"github.com/pkordes/legal-digest/internal/handler"
	"github.com/pkordes/legal-digest/internal/middleware"
	"github.com/pkordes/legal-digest/internal/repo"
	"github.com/pkordes/legal-digest/internal/service"
	"github.com/pkordes/legal-digest/internal/web"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), serveRun)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serveRun(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) error {
	slog.Info("database connection established")

	if serveMigrate {
		if err := migrateUp(ctx, cfg, pool); err != nil {
			return err
		}
	}

	// --- Services ---------------------------------------------------------
	cases := repo.NewCaseRepo(pool)
	tags := repo.NewTagRepo(pool)
	users := repo.NewUserRepo(pool)
	sessions := repo.NewSessionRepo(pool)

	pages, err := web.NewRenderer()
	if err != nil {
		return err
	}

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	srvHandler := handler.NewServer(handler.Deps{
		Cases:         service.NewCaseService(cases, tags),
		Tags:          service.NewTagService(tags),
		Auth:          service.NewAuthService(users, sessions, cfg.SessionTTL),
		Export:        service.NewExportService(cases),
		Pages:         pages,
		Logger:        slog.Default(),
		Metrics:       metrics,
		Ping:          pool.Ping,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.SecureCookies,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srvHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
