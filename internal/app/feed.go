package app

import (
	"sync"

	"footyiq-service/internal/domain"
)

// LeaderboardFeed fans leaderboard snapshots out to live subscribers
// (websocket connections). Publishing never blocks on a slow consumer.
type LeaderboardFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.LeaderboardSnapshot]struct{}
}

func NewLeaderboardFeed() *LeaderboardFeed {
	return &LeaderboardFeed{
		subscribers: make(map[chan domain.LeaderboardSnapshot]struct{}),
	}
}

// Subscribe returns a channel of snapshots. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe() (<-chan domain.LeaderboardSnapshot, func()) {
	ch := make(chan domain.LeaderboardSnapshot, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber, dropping the oldest
// queued update for a subscriber whose buffer is full.
func (f *LeaderboardFeed) Publish(snapshot domain.LeaderboardSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
