package postgres

import (
	"context"
	"errors"
	"fmt"

	"footyiq-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Leaderboard accumulates scores in a single table. The upsert increments
// in one statement, so concurrent awards for the same username never lose
// updates. Ties rank by ascending username.
type Leaderboard struct {
	pool *pgxpool.Pool
}

func NewLeaderboard(pool *pgxpool.Pool) *Leaderboard {
	return &Leaderboard{pool: pool}
}

func (l *Leaderboard) AddPoints(ctx context.Context, username string, points int) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO leaderboard (username, total_score) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET total_score = leaderboard.total_score + EXCLUDED.total_score`,
		username, points)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}

func (l *Leaderboard) Rank(ctx context.Context, username string) (int, bool, error) {
	var rank int
	err := l.pool.QueryRow(ctx,
		`SELECT (SELECT 1 + COUNT(*) FROM leaderboard l
		         WHERE l.total_score > me.total_score
		            OR (l.total_score = me.total_score AND l.username < me.username))
		 FROM leaderboard me WHERE me.username = $1`,
		username).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolve rank: %w", err)
	}
	return rank, true, nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT username, total_score FROM leaderboard
		 ORDER BY total_score DESC, username ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.TotalScore); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Rebuild replaces leaderboard state with totals recomputed from the
// attempt ledger, inside one transaction.
func (l *Leaderboard) Rebuild(ctx context.Context, entries []domain.LeaderboardEntry) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	for _, entry := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO leaderboard (username, total_score) VALUES ($1, $2)`,
			entry.Username, entry.TotalScore); err != nil {
			return fmt.Errorf("insert %q: %w", entry.Username, err)
		}
	}
	return tx.Commit(ctx)
}
