package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/legal-digest/internal/config"
	"github.com/pkordes/legal-digest/internal/repo"
	"github.com/pkordes/legal-digest/internal/service"
)

var ensureSuperuserCmd = &cobra.Command{
	Use:   "ensure-superuser",
	Short: "Create the first superuser if none exists",
	Long: `Create a dashboard superuser from SUPERUSER_USERNAME, SUPERUSER_EMAIL and
SUPERUSER_PASSWORD. Does nothing when a superuser already exists, so it is
safe to run on every deploy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) error {
			auth := service.NewAuthService(repo.NewUserRepo(pool), repo.NewSessionRepo(pool), cfg.SessionTTL)
			created, err := auth.EnsureSuperuser(ctx, cfg.SuperuserUsername, cfg.SuperuserEmail, cfg.SuperuserPassword)
			if err != nil {
				return err
			}
			if created {
				ui.Success("Created superuser %q.", cfg.SuperuserUsername)
			} else {
				ui.Info("A superuser already exists; nothing to do.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ensureSuperuserCmd)
}
