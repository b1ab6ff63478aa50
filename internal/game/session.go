// internal/game/session.go
//
// Round/session state machine for a single player.
//
// States: in_progress → won | lost. Won/lost are terminal until Reset.
//
// Intents (AppendLetter, DeleteLetter, Submit, Reset) that arrive in the
// wrong state are ignored rather than reported, since they only come from
// input races in the presentation layer. The one user-visible rejection is
// ErrInvalidWord from Submit.
//
// The session renders nothing and emits no events; callers read state
// back through the accessors after each intent.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxAttempts is the number of guesses per round when unset.
const DefaultMaxAttempts = 6

// ErrInvalidWord is returned by Submit when the buffer is not a legal word.
var ErrInvalidWord = errors.New("game: not in word list")

// Dictionary supplies secrets and guess legality.
type Dictionary interface {
	Contains(word string) bool
	PickRandom() (string, error)
	Length() int
}

// HighScoreSaver persists the high-water streak.
type HighScoreSaver interface {
	Save(ctx context.Context, value int) error
}

// Options configures a Session.
type Options struct {
	MaxAttempts int            // defaults to DefaultMaxAttempts
	HighScore   int            // persisted high-water streak read at startup
	Scores      HighScoreSaver // optional; nil disables persistence
}

// Session holds the state of the current round plus the running streak.
type Session struct {
	dict        Dictionary
	scores      HighScoreSaver
	maxAttempts int

	secret  string
	buffer  []byte
	history []Attempt
	status  Status
	letters map[byte]Mark
	settled bool // streak already updated for this round

	streak    int
	highScore int
}

// NewSession starts the first round with a secret drawn from dict.
func NewSession(dict Dictionary, opts Options) (*Session, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.HighScore < 0 {
		opts.HighScore = 0
	}
	secret, err := dict.PickRandom()
	if err != nil {
		return nil, fmt.Errorf("game: pick secret: %w", err)
	}
	s := &Session{
		dict:        dict,
		scores:      opts.Scores,
		maxAttempts: opts.MaxAttempts,
		highScore:   opts.HighScore,
	}
	s.startRound(secret)
	return s, nil
}

func (s *Session) startRound(secret string) {
	s.secret = strings.ToUpper(secret)
	s.buffer = s.buffer[:0]
	s.history = nil
	s.letters = make(map[byte]Mark)
	s.status = StatusInProgress
	s.settled = false
}

// AppendLetter adds ch to the guess buffer. It reports whether the letter
// was accepted.
func (s *Session) AppendLetter(ch rune) bool {
	if s.status != StatusInProgress || len(s.buffer) >= s.dict.Length() {
		return false
	}
	switch {
	case ch >= 'a' && ch <= 'z':
		ch -= 'a' - 'A'
	case ch >= 'A' && ch <= 'Z':
	default:
		return false
	}
	s.buffer = append(s.buffer, byte(ch))
	return true
}

// DeleteLetter removes the last buffered letter. It reports whether a
// letter was removed.
func (s *Session) DeleteLetter() bool {
	if s.status != StatusInProgress || len(s.buffer) == 0 {
		return false
	}
	s.buffer = s.buffer[:len(s.buffer)-1]
	return true
}

// Submit evaluates the buffered guess.
//
// It returns (nil, nil) when the submission is ignored (round over or
// buffer incomplete) and ErrInvalidWord, leaving the buffer untouched,
// when the word is not in the dictionary.
func (s *Session) Submit() (Feedback, error) {
	if s.status != StatusInProgress || len(s.buffer) != s.dict.Length() {
		return nil, nil
	}
	guess := string(s.buffer)
	if !s.dict.Contains(guess) {
		return nil, ErrInvalidWord
	}

	fb, err := Evaluate(s.secret, guess)
	if err != nil {
		// Only reachable if the dictionary handed out a secret of the wrong length.
		return nil, err
	}
	s.history = append(s.history, Attempt{Guess: guess, Feedback: fb})
	s.buffer = s.buffer[:0]
	s.learn(guess, fb)

	switch {
	case guess == s.secret:
		s.status = StatusWon
	case len(s.history) >= s.maxAttempts:
		s.status = StatusLost
	}
	return fb, nil
}

// learn folds one feedback row into the letter knowledge.
func (s *Session) learn(guess string, fb Feedback) {
	for i := 0; i < len(guess); i++ {
		c := guess[i]
		if fb[i].rank() > s.letters[c].rank() {
			s.letters[c] = fb[i]
		}
	}
}

// Finish applies the streak update for an ended round without starting a
// new one, for callers that stop playing after a round. It is a no-op while
// the round is in progress or once the round has been settled.
func (s *Session) Finish(ctx context.Context) error {
	if !s.status.Ended() {
		return nil
	}
	return s.settle(ctx, s.status == StatusWon)
}

// Reset starts a new round after the current one has ended. won selects
// the streak update: increment (persisting a new high score when it is
// exceeded) or reset to zero. A round already settled by Finish is not
// counted again.
//
// Reset is ignored while the round is in progress. If the high score
// cannot be persisted the new round still starts and the error is
// returned.
func (s *Session) Reset(ctx context.Context, won bool) error {
	if !s.status.Ended() {
		return nil
	}
	secret, err := s.dict.PickRandom()
	if err != nil {
		return fmt.Errorf("game: pick secret: %w", err)
	}
	saveErr := s.settle(ctx, won)
	s.startRound(secret)
	return saveErr
}

// settle updates the streak once per round.
func (s *Session) settle(ctx context.Context, won bool) error {
	if s.settled {
		return nil
	}
	s.settled = true
	if !won {
		s.streak = 0
		return nil
	}
	s.streak++
	if s.streak <= s.highScore {
		return nil
	}
	s.highScore = s.streak
	if s.scores == nil {
		return nil
	}
	if err := s.scores.Save(ctx, s.highScore); err != nil {
		return fmt.Errorf("game: save high score: %w", err)
	}
	return nil
}

// Buffer returns the letters typed so far for the current guess.
func (s *Session) Buffer() string { return string(s.buffer) }

// History returns a copy of the submitted guesses, oldest first.
func (s *Session) History() []Attempt {
	out := make([]Attempt, len(s.history))
	for i, a := range s.history {
		out[i] = Attempt{Guess: a.Guess, Feedback: append(Feedback(nil), a.Feedback...)}
	}
	return out
}

// Status reports the round state.
func (s *Session) Status() Status { return s.status }

// Streak is the number of consecutive rounds won.
func (s *Session) Streak() int { return s.streak }

// HighScore is the best streak ever reached.
func (s *Session) HighScore() int { return s.highScore }

func (s *Session) Attempts() int { return len(s.history) }

func (s *Session) MaxAttempts() int { return s.maxAttempts }

func (s *Session) WordLength() int { return s.dict.Length() }

// Answer reveals the secret once the round has ended; "" before that.
func (s *Session) Answer() string {
	if !s.status.Ended() {
		return ""
	}
	return s.secret
}

// Letters returns the best mark seen so far for each guessed letter.
func (s *Session) Letters() map[rune]Mark {
	out := make(map[rune]Mark, len(s.letters))
	for c, m := range s.letters {
		out[rune(c)] = m
	}
	return out
}
