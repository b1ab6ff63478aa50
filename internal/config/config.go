// Package config loads runtime settings from the environment.
//
// A `.env` file in the working directory is read first (if present), then
// the process environment is parsed into Config. Variable names shared with
// the original server (PORT, LOG_LEVEL, JWT_SECRET, ...) are kept as-is.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Mode string

// DevJWTSecret is the JWT_SECRET default. It is public, so it is refused
// once a passphrase hash turns the gate on.
const DevJWTSecret = "dev_secret_change_me"

const (
	ModeTerminal Mode = "terminal"
	ModeServer   Mode = "server"
)

type Config struct {
	Mode Mode `env:"WORDLE_MODE" envDefault:"terminal"`

	// Game
	WordsFile   string `env:"WORDS_FILE"`
	WordLength  int    `env:"WORDLE_WORD_LENGTH"  envDefault:"5"`
	MaxAttempts int    `env:"WORDLE_MAX_ATTEMPTS" envDefault:"6"`
	SecretMode  string `env:"WORDLE_SECRET_MODE"  envDefault:"random"` // "random" | "daily"
	DailySalt   string `env:"DAILY_SALT"          envDefault:"local_dev_salt"`

	// Persistence
	ScoreBackend string `env:"WORDLE_SCORE_BACKEND" envDefault:"file"` // "file" | "sqlite"
	ScoreFile    string `env:"WORDLE_SCORE_FILE"    envDefault:"highscore.txt"`
	DBPath       string `env:"WORDLE_DB_PATH"` // empty = in-memory history

	// Terminal
	RevealDelay time.Duration `env:"WORDLE_REVEAL_DELAY" envDefault:"150ms"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"         envDefault:"info"`
	LogFormat string `env:"WORDLE_LOG_FORMAT" envDefault:"console"` // "console" | "json"

	// HTTP
	Port           string `env:"PORT"                   envDefault:"5175"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"          envDefault:"http://localhost:5173"`
	JWTSecret      string `env:"JWT_SECRET"             envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS"       envDefault:"14"`
	PassphraseHash string `env:"WORDLE_PASSPHRASE_HASH"`
}

// Load reads .env (optional) and the environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTerminal, ModeServer:
	default:
		return fmt.Errorf("WORDLE_MODE must be terminal or server, got %q", c.Mode)
	}
	if c.WordLength <= 0 {
		return fmt.Errorf("WORDLE_WORD_LENGTH must be positive, got %d", c.WordLength)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("WORDLE_MAX_ATTEMPTS must be positive, got %d", c.MaxAttempts)
	}
	switch c.SecretMode {
	case "random", "daily":
	default:
		return fmt.Errorf("WORDLE_SECRET_MODE must be random or daily, got %q", c.SecretMode)
	}
	switch c.ScoreBackend {
	case "file":
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("WORDLE_SCORE_BACKEND=sqlite requires WORDLE_DB_PATH")
		}
	default:
		return fmt.Errorf("WORDLE_SCORE_BACKEND must be file or sqlite, got %q", c.ScoreBackend)
	}
	if c.PassphraseHash != "" && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return fmt.Errorf("WORDLE_PASSPHRASE_HASH requires a private JWT_SECRET")
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("WORDLE_REVEAL_DELAY must not be negative")
	}
	return nil
}

// TokenTTL is the lifetime of API access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
