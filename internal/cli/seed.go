package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mochi-games/internal/config"
	"mochi-games/internal/infra/memory"
	"mochi-games/internal/infra/postgres"
	redisstore "mochi-games/internal/infra/redis"
	"mochi-games/internal/logger"
)

// NewSeedCmd loads the built-in catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in categories into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			log, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeded, err := postgres.Seed(ctx, pool, memory.BuiltinCategories(), memory.BuiltinQuestions())
			if err != nil {
				return err
			}
			if !seeded {
				log.Info("catalog already present, skipping seed")
				return nil
			}
			log.Info("catalog seeded")

			if cfg.Redis.Addr != "" {
				if err := invalidateCatalogCache(ctx, cfg); err != nil {
					return fmt.Errorf("invalidate catalog cache: %w", err)
				}
				log.Info("catalog cache invalidated")
			}
			return nil
		},
	}
}

// invalidateCatalogCache drops catalog entries a running server cached before the seed.
func invalidateCatalogCache(ctx context.Context, cfg config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	return redisstore.NewCatalogCache(client, nil, 0).Invalidate(ctx)
}
