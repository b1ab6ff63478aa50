// internal/auth/auth.go
//
// Optional passphrase gate for the local HTTP API.
//
//   - The player's passphrase is configured as a bcrypt hash
//     (WORDLE_PASSPHRASE_HASH). With no hash configured the API is open.
//   - POST /auth/token exchanges the passphrase for an HS256 JWT
//     (subject "player", configurable expiry).
//   - Tokens are accepted from "Authorization: Bearer" or the auth cookie.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName carries the access token for browser clients.
	CookieName = "wordle_token"
	subject    = "player"
)

var (
	ErrBadPassphrase = errors.New("auth: invalid passphrase")
	ErrInvalidToken  = errors.New("auth: invalid token")
)

// Gate issues and verifies access tokens.
type Gate struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGate returns a Gate. An empty passphraseHash disables the gate.
func NewGate(passphraseHash, secret string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Gate{
		hash:   []byte(passphraseHash),
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Enabled reports whether a passphrase is required.
func (g *Gate) Enabled() bool { return len(g.hash) > 0 }

// Issue checks the passphrase and signs a token.
func (g *Gate) Issue(passphrase string) (string, time.Time, error) {
	if g.Enabled() && bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)) != nil {
		return "", time.Time{}, ErrBadPassphrase
	}
	now := g.now()
	exp := now.Add(g.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign: %w", err)
	}
	return ss, exp, nil
}

// Verify validates a token's signature, algorithm, expiry and subject.
func (g *Gate) Verify(token string) error {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !t.Valid || claims.Subject != subject {
		return ErrInvalidToken
	}
	return nil
}

// Require rejects requests without a valid token when the gate is enabled.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		tok := BearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if err := g.Verify(tok); err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerOrCookie extracts a token from the Authorization header or auth cookie.
func BearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// SetCookie writes the auth token cookie.
func SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// HashPassphrase returns a bcrypt hash suitable for WORDLE_PASSPHRASE_HASH.
func HashPassphrase(pw string) (string, error) {
	if len(pw) < 8 || len(pw) > 72 {
		return "", errors.New("passphrase must be 8–72 chars")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}
