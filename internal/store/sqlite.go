// internal/store/sqlite.go
//
// SQLite-backed Recorder and HighScores.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Round history, aggregate stats, and the single-row high score.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solo/assets"
)

// SQLite is a Recorder; HighScores exposes its high score table.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (and creates if missing) the database at path and
// applies migrations. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// openDB opens a SQLite database file.
//
//   - Ensures the parent directory exists for relative paths (e.g. ./data/wordle.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Uses a single connection; SQLite has one writer and :memory: is per connection.
func openDB(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded SQL migrations in lexical order.
// Applied names are tracked in _migrations; each script runs in its own tx.
func migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.Get(&done, `SELECT 1 FROM _migrations WHERE name=?`, m.Name)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

// roundRow matches the rounds table shape.
type roundRow struct {
	ID         string `db:"id"`
	Secret     string `db:"secret"`
	Guesses    string `db:"guesses"`
	Attempts   int    `db:"attempts"`
	Won        bool   `db:"won"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
}

func (r roundRow) round() Round {
	var guesses []string
	if r.Guesses != "" {
		guesses = strings.Split(r.Guesses, ",")
	}
	return Round{
		ID:         r.ID,
		Secret:     r.Secret,
		Guesses:    guesses,
		Attempts:   r.Attempts,
		Won:        r.Won,
		StartedAt:  parseTime(r.StartedAt),
		FinishedAt: parseTime(r.FinishedAt),
	}
}

// Save inserts or replaces a round.
func (s *SQLite) Save(ctx context.Context, r Round) error {
	_, err := s.db.NamedExecContext(ctx, `
        INSERT OR REPLACE INTO rounds
            (id, secret, guesses, attempts, won, started_at, finished_at)
        VALUES (:id, :secret, :guesses, :attempts, :won, :started_at, :finished_at)`,
		roundRow{
			ID:         r.ID,
			Secret:     r.Secret,
			Guesses:    strings.Join(r.Guesses, ","),
			Attempts:   r.Attempts,
			Won:        r.Won,
			StartedAt:  r.StartedAt.UTC().Format(timeLayout),
			FinishedAt: r.FinishedAt.UTC().Format(timeLayout),
		})
	if err != nil {
		return fmt.Errorf("save round %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns rounds ordered by finish time, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var rows []roundRow
	if err := s.db.SelectContext(ctx, &rows, `
        SELECT id, secret, guesses, attempts, won, started_at, finished_at
        FROM rounds
        ORDER BY finished_at DESC
        LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("recent rounds: %w", err)
	}
	out := make([]Round, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.round())
	}
	return out, nil
}

// Stats aggregates rounds in SQL.
func (s *SQLite) Stats(ctx context.Context, maxAttempts int) (Stats, error) {
	st := buildStats(nil, maxAttempts)

	var totals struct {
		Played int `db:"played"`
		Wins   int `db:"wins"`
	}
	if err := s.db.GetContext(ctx, &totals,
		`SELECT COUNT(1) AS played, COALESCE(SUM(won), 0) AS wins FROM rounds`); err != nil {
		return Stats{}, fmt.Errorf("stats totals: %w", err)
	}
	st.GamesPlayed, st.Wins = totals.Played, totals.Wins
	if st.GamesPlayed > 0 {
		st.WinPercent = st.Wins * 100 / st.GamesPlayed
	}

	var buckets []struct {
		Attempts int `db:"attempts"`
		N        int `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &buckets,
		`SELECT attempts, COUNT(1) AS n FROM rounds WHERE won = 1 GROUP BY attempts`); err != nil {
		return Stats{}, fmt.Errorf("stats distribution: %w", err)
	}
	for _, b := range buckets {
		if b.Attempts >= 1 && b.Attempts <= len(st.Distribution) {
			st.Distribution[b.Attempts-1] = b.N
		}
	}
	return st, nil
}

// HighScores returns the high_score table as a HighScores.
func (s *SQLite) HighScores() HighScores { return sqliteHighScore{db: s.db} }

type sqliteHighScore struct{ db *sqlx.DB }

// Load reads the stored high score; 0 when none has been saved.
func (h sqliteHighScore) Load(ctx context.Context) (int, error) {
	var v int
	err := h.db.GetContext(ctx, &v, `SELECT value FROM high_score WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	return v, nil
}

// Save upserts the single high score row.
func (h sqliteHighScore) Save(ctx context.Context, value int) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO high_score (id, value, updated_at) VALUES (1, ?, ?)`,
		value, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
