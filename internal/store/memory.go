// internal/store/memory.go
//
// In-memory implementation of Recorder.
// Used when no database path is configured, and in tests.
//
// Characteristics:
//   - Rounds keyed by ID in a map, with insertion order kept separately.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
)

// memory is an in-memory map-based Recorder implementation.
type memory struct {
	mu     sync.RWMutex     // guards rounds and order
	rounds map[string]Round // keyed by Round.ID
	order  []string         // IDs in first-save order
}

// NewMemoryRecorder constructs a new in-memory Recorder.
func NewMemoryRecorder() Recorder {
	return &memory{rounds: make(map[string]Round)}
}

// Save adds or updates the round.
func (m *memory) Save(ctx context.Context, r Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rounds[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	r.Guesses = append([]string(nil), r.Guesses...)
	m.rounds[r.ID] = r
	return nil
}

// Recent returns rounds ordered by FinishedAt descending.
func (m *memory) Recent(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Round, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rounds[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats aggregates every stored round.
func (m *memory) Stats(ctx context.Context, maxAttempts int) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rounds := make([]Round, 0, len(m.rounds))
	for _, r := range m.rounds {
		rounds = append(rounds, r)
	}
	return buildStats(rounds, maxAttempts), nil
}
