// internal/game/engine.go
//
// Guess evaluation.
//
// Evaluate implements the classic two-pass scoring algorithm:
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Tally the secret letters that were NOT consumed by an exact match.
//
// Pass 2 (left to right):
//   - For each non-correct guess letter: if the tally for that letter is
//     positive, mark Present and decrement; otherwise mark Absent.
//
// A secret occurrence is therefore never credited to two guess positions.
package game

import (
	"errors"
	"strings"
)

// ErrLengthMismatch is returned when secret and guess differ in length.
var ErrLengthMismatch = errors.New("game: secret and guess lengths differ")

// Evaluate scores guess against secret. It is pure and deterministic.
func Evaluate(secret, guess string) (Feedback, error) {
	secret = strings.ToUpper(secret)
	guess = strings.ToUpper(guess)
	if len(secret) != len(guess) {
		return nil, ErrLengthMismatch
	}

	n := len(guess)
	res := make(Feedback, n)

	// Remaining secret letters at non-exact positions.
	remaining := make(map[byte]int, n)

	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			res[i] = MarkCorrect
		} else {
			remaining[secret[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		c := guess[i]
		if remaining[c] > 0 {
			res[i] = MarkPresent
			remaining[c]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res, nil
}
