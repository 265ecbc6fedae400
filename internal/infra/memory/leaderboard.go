package memory

import (
	"context"
	"sort"
	"sync"

	"footyiq-service/internal/domain"
)

// Leaderboard keeps cumulative scores in a map guarded by one mutex, which
// makes AddPoints an atomic increment-or-create. Ties order by ascending
// username so ranks stay deterministic.
type Leaderboard struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{scores: make(map[string]int)}
}

func (l *Leaderboard) AddPoints(_ context.Context, username string, points int) error {
	l.mu.Lock()
	l.scores[username] += points
	l.mu.Unlock()
	return nil
}

func (l *Leaderboard) Rank(_ context.Context, username string) (int, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	score, ok := l.scores[username]
	if !ok {
		return 0, false, nil
	}
	rank := 1
	for other, otherScore := range l.scores {
		if otherScore > score || (otherScore == score && other < username) {
			rank++
		}
	}
	return rank, true, nil
}

func (l *Leaderboard) Top(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(l.scores))
	for username, score := range l.scores {
		entries = append(entries, domain.LeaderboardEntry{Username: username, TotalScore: score})
	}
	l.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Rebuild replaces all scores with the given entries.
func (l *Leaderboard) Rebuild(_ context.Context, entries []domain.LeaderboardEntry) error {
	scores := make(map[string]int, len(entries))
	for _, entry := range entries {
		scores[entry.Username] = entry.TotalScore
	}
	l.mu.Lock()
	l.scores = scores
	l.mu.Unlock()
	return nil
}
