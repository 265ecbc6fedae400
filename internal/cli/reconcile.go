package cli

import (
	"context"
	"fmt"
	"log"

	"footyiq-service/internal/config"
	"footyiq-service/internal/domain"
	infrapg "footyiq-service/internal/infra/postgres"
	infraredis "footyiq-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// leaderboardRebuilder is implemented by every leaderboard store.
type leaderboardRebuilder interface {
	Rebuild(ctx context.Context, entries []domain.LeaderboardEntry) error
}

// NewReconcileCmd rebuilds leaderboard totals from the attempt ledger. A
// submission can record an attempt and then fail to increment the
// leaderboard; this repair pass restores the two stores to agreement.
func NewReconcileCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild the leaderboard from recorded attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			totals, err := infrapg.NewAttemptLedger(pool).TotalsByUser(ctx)
			if err != nil {
				return err
			}

			var target leaderboardRebuilder = infrapg.NewLeaderboard(pool)
			if cfg.Redis.Addr != "" {
				target = infraredis.NewLeaderboard(redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				}))
			}

			if err := target.Rebuild(ctx, totals); err != nil {
				return err
			}
			log.Printf("leaderboard rebuilt with %d entries", len(totals))
			return nil
		},
	}
}
