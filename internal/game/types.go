// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark: per-letter verdict for a submitted guess.
//   - Feedback: the ordered marks for one guess.
//   - Status: round state (in progress / won / lost).
//   - Attempt: one submitted guess with its feedback.

package game

// Mark represents the evaluation result for a single letter in a guess.
//   - "correct": right letter, right position.
//   - "present": letter is in the secret at another, not yet accounted for, position.
//   - "absent":  letter is not in the secret, or all its occurrences are used up.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// rank orders marks for letter knowledge: correct > present > absent.
func (m Mark) rank() int {
	switch m {
	case MarkCorrect:
		return 3
	case MarkPresent:
		return 2
	case MarkAbsent:
		return 1
	}
	return 0
}

// Feedback is the per-position result of one guess.
type Feedback []Mark

// Solved reports whether every position is correct.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, m := range f {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}

// Status is the round state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Ended reports whether the round is over.
func (s Status) Ended() bool { return s == StatusWon || s == StatusLost }

// Attempt is a submitted guess and its feedback. Never mutated once recorded.
type Attempt struct {
	Guess    string   `json:"guess"`
	Feedback Feedback `json:"feedback"`
}
