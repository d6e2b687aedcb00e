package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/legal-digest/internal/config"
	"github.com/pkordes/legal-digest/internal/repo"
	"github.com/pkordes/legal-digest/internal/service"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with their case counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), tagsRun)
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func tagsRun(ctx context.Context, _ config.Config, pool *pgxpool.Pool) error {
	stats, err := service.NewTagService(repo.NewTagRepo(pool)).ListStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		ui.Info("No tags. Create them from the dashboard at /dashboard/tags/.")
		return nil
	}
	return ui.TagStats(stats)
}
