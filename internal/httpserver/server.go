// internal/httpserver/server.go
//
// HTTP presentation layer for the game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /auth/token.
//   - Game intents: POST /game/letter, /game/delete, /game/type, /game/submit, /game/reset.
//   - Read-only state: GET /game, /stats, /games/recent, /debug/words.
//
// Notes:
//   - There is exactly one game; every intent answers with the new snapshot,
//     so clients can simply re-render after each call.
//   - When a passphrase hash is configured, everything except the public
//     endpoints requires a token from /auth/token.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solo/internal/auth"
	"github.com/robalobadob/wordle-solo/internal/game"
	"github.com/robalobadob/wordle-solo/internal/play"
)

// WordStats reports dictionary size for /debug/words.
type WordStats interface {
	Len() int
	Length() int
}

// Server bundles router, game controller and auth gate.
type Server struct {
	r      *chi.Mux
	game   *play.Controller
	gate   *auth.Gate
	words  WordStats
	origin string
}

// New constructs a Server, installs middleware, and registers routes.
func New(ctrl *play.Controller, gate *auth.Gate, words WordStats, clientOrigin string) *Server {
	if clientOrigin == "" {
		clientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), game: ctrl, gate: gate, words: words, origin: clientOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-solo","endpoints":["/health","GET /game","POST /game/letter","POST /game/delete","POST /game/type","POST /game/submit","POST /game/reset","GET /stats","GET /games/recent"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/auth/token", s.handleToken)

	// Everything else sits behind the (optional) passphrase gate.
	s.r.Group(func(r chi.Router) {
		r.Use(s.gate.Require)

		r.Get("/game", s.handleState)
		r.Post("/game/letter", s.handleLetter)
		r.Post("/game/delete", s.handleDelete)
		r.Post("/game/type", s.handleType)
		r.Post("/game/submit", s.handleSubmit)
		r.Post("/game/reset", s.handleReset)

		r.Get("/stats", s.handleStats)
		r.Get("/games/recent", s.handleRecent)

		// Debug: word list counts
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"words": s.words.Len(), "length": s.words.Length()})
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

// ------------------------------- AUTH --------------------------------------

type tokenReq struct {
	Passphrase string `json:"passphrase"`
}
type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleToken exchanges the passphrase for an access token (also set as a cookie).
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var body tokenReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	tok, exp, err := s.gate.Issue(body.Passphrase)
	if errors.Is(err, auth.ErrBadPassphrase) {
		http.Error(w, `{"error":"Invalid passphrase"}`, http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	auth.SetCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, tokenRes{Token: tok, ExpiresAt: exp})
}

// ------------------------------ GAME ---------------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

type letterReq struct {
	Letter string `json:"letter"`
}

// handleLetter appends a single letter. Anything but one character is a
// bad request; a character the game ignores just returns the unchanged state.
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || utf8.RuneCountInString(req.Letter) != 1 {
		http.Error(w, `{"error":"bad_letter"}`, http.StatusBadRequest)
		return
	}
	ch, _ := utf8.DecodeRuneInString(req.Letter)
	writeJSON(w, http.StatusOK, s.game.Letter(ch))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Delete())
}

type typeReq struct {
	Word string `json:"word"`
}

// handleType replaces the whole buffer, for clients that compose locally.
func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	var req typeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Type(req.Word))
}

type errorRes struct {
	Error string        `json:"error"`
	State play.Snapshot `json:"state"`
}

// handleSubmit evaluates the buffered guess.
// 422 with the unchanged state when the word is not in the dictionary.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	res, err := s.game.Submit(r.Context())
	if errors.Is(err, game.ErrInvalidWord) {
		writeJSON(w, http.StatusUnprocessableEntity, errorRes{Error: "not_in_word_list", State: res.Snapshot})
		return
	}
	if err != nil {
		http.Error(w, `{"error":"evaluate_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleReset starts the next round. 409 while the round is still in progress.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.game.Reset(r.Context())
	if !ok {
		writeJSON(w, http.StatusConflict, errorRes{Error: "round_in_progress", State: snap})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ------------------------------ STATS --------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.Stats(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("load stats")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	snap := s.game.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"gamesPlayed":  st.GamesPlayed,
		"wins":         st.Wins,
		"winPercent":   st.WinPercent,
		"distribution": st.Distribution,
		"streak":       snap.Streak,
		"highScore":    snap.HighScore,
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	rounds, err := s.game.Recent(r.Context(), limit)
	if err != nil {
		log.Warn().Err(err).Msg("load recent rounds")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
