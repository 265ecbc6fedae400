package memory

import (
	"context"
	"sync"

	"footyiq-service/internal/domain"
)

// AttemptLedger enforces one attempt per (quiz, username) pair under a
// single mutex, so the existence check and the insert are one atomic step.
type AttemptLedger struct {
	mu     sync.RWMutex
	seen   map[attemptKey]struct{}
	byQuiz map[string][]domain.Attempt
}

type attemptKey struct {
	quizID   string
	username string
}

func NewAttemptLedger() *AttemptLedger {
	return &AttemptLedger{
		seen:   make(map[attemptKey]struct{}),
		byQuiz: make(map[string][]domain.Attempt),
	}
}

func (l *AttemptLedger) RecordAttempt(_ context.Context, attempt domain.Attempt) error {
	key := attemptKey{quizID: attempt.QuizID, username: attempt.Username}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[key]; ok {
		return domain.ErrAlreadyPlayed
	}
	l.seen[key] = struct{}{}
	l.byQuiz[attempt.QuizID] = append(l.byQuiz[attempt.QuizID], attempt)
	return nil
}

// ListByQuiz returns up to limit attempts for a quiz, most recent first.
func (l *AttemptLedger) ListByQuiz(_ context.Context, quizID string, limit int) ([]domain.Attempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	attempts := l.byQuiz[quizID]
	out := make([]domain.Attempt, 0, limit)
	for i := len(attempts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, attempts[i])
	}
	return out, nil
}

// TotalsByUser sums awarded points per username across all quizzes. The
// reconcile pass uses this to rebuild leaderboard state from the ledger.
func (l *AttemptLedger) TotalsByUser(_ context.Context) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := make(map[string]int)
	for _, attempts := range l.byQuiz {
		for _, attempt := range attempts {
			totals[attempt.Username] += attempt.Points
		}
	}
	entries := make([]domain.LeaderboardEntry, 0, len(totals))
	for username, total := range totals {
		entries = append(entries, domain.LeaderboardEntry{Username: username, TotalScore: total})
	}
	return entries, nil
}
