package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solo/internal/auth"
	"github.com/robalobadob/wordle-solo/internal/config"
	"github.com/robalobadob/wordle-solo/internal/daily"
	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/httpserver"
	"github.com/robalobadob/wordle-solo/internal/play"
	"github.com/robalobadob/wordle-solo/internal/store"
	"github.com/robalobadob/wordle-solo/internal/terminal"
	"github.com/robalobadob/wordle-solo/internal/words"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-passphrase" {
		os.Exit(hashPassphrase(os.Args[2:]))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dict, err := loadDictionary(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Debug().Int("words", dict.Len()).Int("length", dict.Length()).Msg("dictionary loaded")

	var pool game.Dictionary = dict
	if cfg.SecretMode == "daily" {
		pool = daily.NewSequence(dict, cfg.DailySalt, nil)
	}

	// --- persistence ---
	var (
		rounds = store.NewMemoryRecorder()
		scores store.HighScores = store.NewFileHighScore(cfg.ScoreFile)
	)
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		rounds = db
		if cfg.ScoreBackend == "sqlite" {
			scores = db.HighScores()
		}
	}

	sess, err := game.NewSession(pool, game.Options{
		MaxAttempts: cfg.MaxAttempts,
		HighScore:   store.LoadHighScore(ctx, scores),
		Scores:      scores,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start session")
	}
	ctrl := play.New(sess, rounds)

	switch cfg.Mode {
	case config.ModeServer:
		gate := auth.NewGate(cfg.PassphraseHash, cfg.JWTSecret, cfg.TokenTTL())
		srv := httpserver.New(ctrl, gate, dict, cfg.ClientOrigin)
		log.Info().
			Str("port", cfg.Port).
			Bool("passphrase", gate.Enabled()).
			Str("secrets", cfg.SecretMode).
			Msg("starting wordle-solo server")
		serveErr := srv.Start(ctx, ":"+cfg.Port)
		if err := ctrl.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("settle last round")
		}
		if serveErr != nil {
			log.Fatal().Err(serveErr).Msg("server exited")
		}
		log.Info().Msg("server stopped")

	default:
		out, tty := terminal.Stdout()
		err := terminal.Run(ctx, os.Stdin, out, ctrl, terminal.Options{
			Color:       tty,
			RevealDelay: cfg.RevealDelay,
		})
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("terminal session ended")
		}
	}
}

func loadDictionary(cfg *config.Config) (*words.Dictionary, error) {
	if cfg.WordsFile != "" {
		return words.LoadFile(cfg.WordsFile, cfg.WordLength)
	}
	return words.LoadDefault(cfg.WordLength)
}

// setupLogging writes logs to stderr so they never interleave with the board.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func hashPassphrase(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: wordle-solo hash-passphrase <passphrase>")
		return 2
	}
	h, err := auth.HashPassphrase(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(h)
	return 0
}
