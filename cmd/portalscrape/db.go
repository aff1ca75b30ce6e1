package main

import (
	"context"
	"fmt"

	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/internal/store/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd applies pending SQL migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dbCommand(cmd.Context(), func(ctx context.Context, db *store.Database, logger *zap.Logger) error {
			if err := db.RunMigrations(ctx); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("database migrations applied")
			return nil
		})
	},
}

// seedCmd loads the built-in teams, players, and transactions
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the built-in catalog into Postgres",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dbCommand(cmd.Context(), func(ctx context.Context, db *store.Database, logger *zap.Logger) error {
			catalog := store.SeedCatalog()
			if err := repository.NewSource(db).Seed(ctx, catalog); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			logger.Info("seed data applied",
				zap.Int("teams", len(catalog.Teams())),
				zap.Int("players", len(catalog.Players())),
				zap.Int("transactions", len(catalog.Transactions())))
			return nil
		})
	},
}
