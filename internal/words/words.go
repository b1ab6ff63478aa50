// internal/words/words.go
//
// Dictionary of legal words for the game.
//
// Responsibilities:
//   - Load a newline-delimited word list from a reader, a file, or the
//     embedded default list.
//   - Normalize entries (trim + uppercase) and keep only words of the
//     configured length made of letters A–Z. Everything else is dropped
//     silently; duplicates collapse.
//   - Answer membership queries and pick uniformly random secrets.
//
// A Dictionary is never empty once Load succeeds.
package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/wordle-solo/assets"
)

// DefaultLength is the word length used when none is configured.
const DefaultLength = 5

var (
	// ErrLoad is returned when a source is unreadable or yields no usable words.
	ErrLoad = errors.New("words: load failed")
	// ErrEmptyDictionary is returned by PickRandom on an empty dictionary.
	ErrEmptyDictionary = errors.New("words: dictionary is empty")
)

// Picker returns an index in [0, n).
type Picker func(n int) (int, error)

// Dictionary is an immutable set of uppercase words of identical length.
type Dictionary struct {
	length int
	list   []string            // sorted, used for random/deterministic picks
	set    map[string]struct{} // membership
	pick   Picker
}

// Option customizes a Dictionary at load time.
type Option func(*Dictionary)

// WithPicker replaces the crypto/rand based index picker.
func WithPicker(p Picker) Option {
	return func(d *Dictionary) { d.pick = p }
}

// Load reads one word per line from r and keeps words of the given length.
func Load(r io.Reader, length int, opts ...Option) (*Dictionary, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: invalid word length %d", ErrLoad, length)
	}
	d := &Dictionary{
		length: length,
		set:    make(map[string]struct{}),
		pick:   cryptoPick,
	}
	for _, o := range opts {
		o(d)
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := Normalize(sc.Text())
		if len(w) != length || !isAlpha(w) {
			continue
		}
		d.set[w] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if len(d.set) == 0 {
		return nil, fmt.Errorf("%w: no %d-letter words in source", ErrLoad, length)
	}

	d.list = make([]string, 0, len(d.set))
	for w := range d.set {
		d.list = append(d.list, w)
	}
	sort.Strings(d.list)
	return d, nil
}

// LoadFile loads a dictionary from a file on disk.
func LoadFile(path string, length int, opts ...Option) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Load(f, length, opts...)
}

// LoadDefault loads the embedded word list.
func LoadDefault(length int, opts ...Option) (*Dictionary, error) {
	f, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Load(f, length, opts...)
}

// Contains reports whether w (case-insensitive, trimmed) is a legal word.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[Normalize(w)]
	return ok
}

// PickRandom returns a uniformly random word.
func (d *Dictionary) PickRandom() (string, error) {
	if len(d.list) == 0 {
		return "", ErrEmptyDictionary
	}
	i, err := d.pick(len(d.list))
	if err != nil {
		return "", fmt.Errorf("words: pick: %w", err)
	}
	if i < 0 || i >= len(d.list) {
		return "", fmt.Errorf("words: pick index %d out of range", i)
	}
	return d.list[i], nil
}

// Length is the fixed length of every word.
func (d *Dictionary) Length() int { return d.length }

// Len is the number of words loaded.
func (d *Dictionary) Len() int { return len(d.list) }

// Words returns a sorted copy of all words.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.list...)
}

// Normalize trims whitespace and uppercases w.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func cryptoPick(n int) (int, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(nBig.Int64()), nil
}
