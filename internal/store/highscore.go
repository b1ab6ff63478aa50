// internal/store/highscore.go
//
// High-water streak persisted as a single plain-text integer.
//
//   - Load: missing file → 0, no error. Unparsable → 0 plus an error.
//   - Save: the file is rewritten in full (temp file + rename).

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileHighScore stores the high score in a text file.
type FileHighScore struct {
	Path string
}

// NewFileHighScore returns a file-backed HighScores.
func NewFileHighScore(path string) *FileHighScore {
	return &FileHighScore{Path: path}
}

// Load reads the stored value.
func (f *FileHighScore) Load(ctx context.Context) (int, error) {
	b, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", f.Path, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("parse %s: invalid high score %q", f.Path, strings.TrimSpace(string(b)))
	}
	return n, nil
}

// Save overwrites the file with value.
func (f *FileHighScore) Save(ctx context.Context, value int) error {
	dir := filepath.Dir(f.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".highscore-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strconv.Itoa(value) + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("rename to %s: %w", f.Path, err)
	}
	return nil
}

// LoadHighScore reads the high score, falling back to 0 on any failure.
// Failures are only logged at debug level.
func LoadHighScore(ctx context.Context, s HighScores) int {
	n, err := s.Load(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("high score unavailable, starting from 0")
		return 0
	}
	return n
}
