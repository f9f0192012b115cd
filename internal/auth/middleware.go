// Package auth resolves the caller's session to an email address.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// CookieName is the session cookie set by the sign-in flow.
const CookieName = "session_token"

var ErrNoSession = errors.New("no valid session")

// SessionResolver maps a session token to the signed-in email.
type SessionResolver interface {
	SessionEmail(ctx context.Context, token string) (string, error)
}

type ctxKey struct{}

// Middleware rejects requests without a resolvable session with 401.
func Middleware(sessions SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				unauthorized(w)
				return
			}

			email, err := sessions.SessionEmail(r.Context(), token)
			if err != nil || email == "" {
				if err != nil {
					logger.Debug("session lookup failed", "error", err)
				}
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), email)))
		})
	}
}

// Token reads a bearer token, falling back to the session cookie.
func Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, email)
}

func EmailFrom(ctx context.Context) (string, error) {
	email, ok := ctx.Value(ctxKey{}).(string)
	if !ok || email == "" {
		return "", ErrNoSession
	}
	return email, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
