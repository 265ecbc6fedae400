package redis

import (
	"context"
	"errors"
	"fmt"

	"footyiq-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// leaderboardKey is the ZSET holding every participant's cumulative score.
const leaderboardKey = "leaderboard:score"

// Leaderboard keeps global scores in a Redis sorted set. ZINCRBY is the
// atomic increment-or-create, and ZREVRANK gives sublinear rank lookups;
// ties inherit the sorted set's member ordering.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) AddPoints(ctx context.Context, username string, points int) error {
	if err := l.client.ZIncrBy(ctx, leaderboardKey, float64(points), username).Err(); err != nil {
		return fmt.Errorf("zincrby: %w", err)
	}
	return nil
}

func (l *Leaderboard) Rank(ctx context.Context, username string) (int, bool, error) {
	rank, err := l.client.ZRevRank(ctx, leaderboardKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("zrevrank: %w", err)
	}
	return int(rank) + 1, true, nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(results))
	for _, z := range results {
		username, _ := z.Member.(string)
		entries = append(entries, domain.LeaderboardEntry{
			Username:   username,
			TotalScore: int(z.Score),
		})
	}
	return entries, nil
}

// Rebuild replaces the sorted set with totals recomputed from the attempt
// ledger, in a single pipeline.
func (l *Leaderboard) Rebuild(ctx context.Context, entries []domain.LeaderboardEntry) error {
	members := make([]redis.Z, 0, len(entries))
	for _, entry := range entries {
		members = append(members, redis.Z{Score: float64(entry.TotalScore), Member: entry.Username})
	}

	pipe := l.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}
	return nil
}
