// internal/play/controller.go
//
// Controller sits between the presentation layers and the game session.
// Responsibilities:
//   - Serialize intents (the HTTP server calls in from many goroutines;
//     the session itself is single threaded).
//   - Record each finished round once, best effort.
//   - Build read-only Snapshots for rendering.
package play

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/store"
)

// Controller drives one game.Session.
type Controller struct {
	mu       sync.Mutex
	sess     *game.Session
	rounds   store.Recorder
	now      func() time.Time
	roundID  string
	started  time.Time
	recorded bool
}

// New wraps sess. rounds may be nil to skip history.
func New(sess *game.Session, rounds store.Recorder) *Controller {
	c := &Controller{sess: sess, rounds: rounds, now: time.Now}
	c.beginRound()
	return c
}

func (c *Controller) beginRound() {
	c.roundID = randomID()
	c.started = c.now()
	c.recorded = false
}

// Snapshot is everything a presentation layer needs to render the game.
type Snapshot struct {
	Buffer      string               `json:"buffer"`
	History     []game.Attempt       `json:"history"`
	Status      game.Status          `json:"status"`
	Attempts    int                  `json:"attempts"`
	MaxAttempts int                  `json:"maxAttempts"`
	WordLength  int                  `json:"wordLength"`
	Streak      int                  `json:"streak"`
	HighScore   int                  `json:"highScore"`
	Letters     map[string]game.Mark `json:"letters"`
	Answer      string               `json:"answer,omitempty"` // only once the round has ended
}

// SubmitResult reports what a submission did.
type SubmitResult struct {
	Accepted bool          `json:"accepted"` // false when ignored (incomplete buffer / round over)
	Feedback game.Feedback `json:"feedback,omitempty"`
	Snapshot Snapshot      `json:"state"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	letters := make(map[string]game.Mark)
	for r, m := range c.sess.Letters() {
		letters[string(r)] = m
	}
	return Snapshot{
		Buffer:      c.sess.Buffer(),
		History:     c.sess.History(),
		Status:      c.sess.Status(),
		Attempts:    c.sess.Attempts(),
		MaxAttempts: c.sess.MaxAttempts(),
		WordLength:  c.sess.WordLength(),
		Streak:      c.sess.Streak(),
		HighScore:   c.sess.HighScore(),
		Letters:     letters,
		Answer:      c.sess.Answer(),
	}
}

// Letter appends one letter to the guess buffer.
func (c *Controller) Letter(ch rune) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.AppendLetter(ch)
	return c.snapshot()
}

// Delete removes the last letter from the guess buffer.
func (c *Controller) Delete() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.DeleteLetter()
	return c.snapshot()
}

// Type replaces the guess buffer with word, letter by letter. Letters the
// session refuses (non-alphabetic, overflow) are dropped.
func (c *Controller) Type(word string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.sess.DeleteLetter() {
	}
	for _, r := range word {
		c.sess.AppendLetter(r)
	}
	return c.snapshot()
}

// Submit evaluates the buffered guess. game.ErrInvalidWord is returned
// unchanged so callers can show it to the player.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fb, err := c.sess.Submit()
	if err != nil {
		if !errors.Is(err, game.ErrInvalidWord) {
			log.Error().Err(err).Msg("evaluate guess")
		}
		return SubmitResult{Snapshot: c.snapshot()}, err
	}
	if fb == nil {
		return SubmitResult{Snapshot: c.snapshot()}, nil
	}
	if c.sess.Status().Ended() {
		c.recordRound(ctx)
	}
	return SubmitResult{Accepted: true, Feedback: fb, Snapshot: c.snapshot()}, nil
}

// recordRound saves the finished round once. Failures are logged only.
func (c *Controller) recordRound(ctx context.Context) {
	if c.recorded {
		return
	}
	c.recorded = true

	history := c.sess.History()
	guesses := make([]string, len(history))
	for i, a := range history {
		guesses[i] = a.Guess
	}
	won := c.sess.Status() == game.StatusWon
	log.Info().
		Str("round", c.roundID).
		Bool("won", won).
		Int("attempts", len(history)).
		Msg("round finished")

	if c.rounds == nil {
		return
	}
	r := store.Round{
		ID:         c.roundID,
		Secret:     c.sess.Answer(),
		Guesses:    guesses,
		Attempts:   len(history),
		Won:        won,
		StartedAt:  c.started,
		FinishedAt: c.now(),
	}
	if err := c.rounds.Save(ctx, r); err != nil {
		log.Warn().Err(err).Str("round", c.roundID).Msg("record round")
	}
}

// Reset starts the next round once the current one has ended. It returns
// false when the round is still in progress.
func (c *Controller) Reset(ctx context.Context) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := c.sess.Status()
	if !status.Ended() {
		return c.snapshot(), false
	}
	if err := c.sess.Reset(ctx, status == game.StatusWon); err != nil {
		log.Warn().Err(err).Msg("reset round")
	}
	if c.sess.Status().Ended() {
		// Reset could not draw a new secret; the old round stays.
		return c.snapshot(), false
	}
	c.beginRound()
	log.Debug().Str("round", c.roundID).Int("streak", c.sess.Streak()).Msg("round started")
	return c.snapshot(), true
}

// Close settles the streak of an ended round when play stops without a
// reset. Safe to call more than once.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Finish(ctx)
}

// Stats aggregates recorded rounds.
func (c *Controller) Stats(ctx context.Context) (store.Stats, error) {
	if c.rounds == nil {
		return store.Stats{Distribution: make([]int, c.sess.MaxAttempts())}, nil
	}
	return c.rounds.Stats(ctx, c.sess.MaxAttempts())
}

// Recent lists the latest recorded rounds.
func (c *Controller) Recent(ctx context.Context, limit int) ([]store.Round, error) {
	if c.rounds == nil {
		return []store.Round{}, nil
	}
	return c.rounds.Recent(ctx, limit)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
