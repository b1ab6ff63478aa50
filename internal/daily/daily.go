// internal/daily/daily.go
//
// Deterministic "daily" secret selection.
//
// Every player using the same salt gets the same sequence of secrets on a
// given UTC day: round k of the day uses HMAC(salt, "YYYY-MM-DD#k") to
// index the sorted dictionary. The round counter restarts when the date
// changes.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// WordList is the dictionary surface the sequence needs.
type WordList interface {
	Contains(word string) bool
	Length() int
	Words() []string
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for key using HMAC(salt, key) % n.
func WordIndex(key, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Sequence hands out the day's secrets in order. It satisfies the game's
// Dictionary interface by delegating membership to the wrapped words.
type Sequence struct {
	WordList
	salt  string
	now   func() time.Time
	list  []string
	date  string
	round int
}

// NewSequence wraps w. now defaults to time.Now.
func NewSequence(w WordList, salt string, now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{WordList: w, salt: salt, now: now, list: w.Words()}
}

// PickRandom returns the next secret of the current day.
func (s *Sequence) PickRandom() (string, error) {
	if len(s.list) == 0 {
		return "", errors.New("daily: no words")
	}
	today := DateKey(s.now())
	if today != s.date {
		s.date, s.round = today, 0
	}
	key := fmt.Sprintf("%s#%d", s.date, s.round)
	s.round++
	return s.list[WordIndex(key, s.salt, len(s.list))], nil
}
