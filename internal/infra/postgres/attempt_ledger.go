package postgres

import (
	"context"
	"fmt"

	"footyiq-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptLedger stores one row per (quiz, username) pair. The unique index
// on the pair is what closes the race between concurrent duplicate
// submissions; a read-then-write check alone would not.
type AttemptLedger struct {
	pool *pgxpool.Pool
}

func NewAttemptLedger(pool *pgxpool.Pool) *AttemptLedger {
	return &AttemptLedger{pool: pool}
}

func (l *AttemptLedger) RecordAttempt(ctx context.Context, attempt domain.Attempt) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO attempts (quiz_id, username, points, correct_count, total_questions, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		attempt.QuizID, attempt.Username, attempt.Points,
		attempt.CorrectCount, attempt.TotalQuestions, attempt.SubmittedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyPlayed
	}
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (l *AttemptLedger) ListByQuiz(ctx context.Context, quizID string, limit int) ([]domain.Attempt, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT quiz_id, username, points, correct_count, total_questions, submitted_at
		 FROM attempts WHERE quiz_id=$1
		 ORDER BY submitted_at DESC LIMIT $2`,
		quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]domain.Attempt, 0, limit)
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(&a.QuizID, &a.Username, &a.Points, &a.CorrectCount, &a.TotalQuestions, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// TotalsByUser aggregates awarded points per username straight from the
// ledger. The reconcile command uses it to rebuild leaderboard state after
// a partial failure (attempt recorded, increment lost).
func (l *AttemptLedger) TotalsByUser(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT username, COALESCE(SUM(points), 0) FROM attempts GROUP BY username`)
	if err != nil {
		return nil, fmt.Errorf("sum attempts: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.TotalScore); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
