// internal/store/store.go
//
// Persistence for finished rounds and the high-water streak.
//
// Implementations:
//   - memory (memory.go): rounds kept in process, lost on restart.
//   - SQLite (sqlite.go): rounds and high score in a local database.
//   - FileHighScore (highscore.go): the high score as a plain-text integer.
package store

import (
	"context"
	"time"
)

// DefaultRecentLimit caps Recent when no positive limit is given.
const DefaultRecentLimit = 20

// Round is the summary of a finished round.
type Round struct {
	ID         string    `json:"id"`
	Secret     string    `json:"secret"`
	Guesses    []string  `json:"guesses"`
	Attempts   int       `json:"attempts"`
	Won        bool      `json:"won"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats aggregates all recorded rounds.
type Stats struct {
	GamesPlayed  int   `json:"gamesPlayed"`
	Wins         int   `json:"wins"`
	WinPercent   int   `json:"winPercent"`
	Distribution []int `json:"distribution"` // Distribution[i] = wins in i+1 attempts
}

// Recorder stores finished rounds.
// Implementations may be backed by memory (this package) or SQLite.
type Recorder interface {
	// Save persists a finished round. Saving the same ID twice overwrites it.
	Save(ctx context.Context, r Round) error

	// Recent returns up to limit rounds, most recently finished first.
	// limit <= 0 means DefaultRecentLimit.
	Recent(ctx context.Context, limit int) ([]Round, error)

	// Stats aggregates all rounds; the distribution has maxAttempts buckets.
	Stats(ctx context.Context, maxAttempts int) (Stats, error)
}

// HighScores persists the high-water streak.
type HighScores interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, value int) error
}

// buildStats folds rounds into Stats.
func buildStats(rounds []Round, maxAttempts int) Stats {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	st := Stats{Distribution: make([]int, maxAttempts)}
	for _, r := range rounds {
		st.GamesPlayed++
		if !r.Won {
			continue
		}
		st.Wins++
		if r.Attempts >= 1 && r.Attempts <= maxAttempts {
			st.Distribution[r.Attempts-1]++
		}
	}
	if st.GamesPlayed > 0 {
		st.WinPercent = st.Wins * 100 / st.GamesPlayed
	}
	return st
}
