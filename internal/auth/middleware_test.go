package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubSessions map[string]string

func (s stubSessions) SessionEmail(_ context.Context, token string) (string, error) {
	if email, ok := s[token]; ok {
		return email, nil
	}
	return "", errors.New("not found")
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	mw := Middleware(stubSessions{"good": "a@example.com"}, slog.Default())
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := EmailFrom(r.Context())
		if err != nil {
			t.Errorf("expected email in context: %v", err)
		}
		w.Write([]byte(email))
	}))
}

func TestMiddleware_Bearer(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()

	protected(t).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "a@example.com" {
		t.Errorf("expected email body, got %q", w.Body.String())
	}
}

func TestMiddleware_Cookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "good"})
	w := httptest.NewRecorder()

	protected(t).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"unknown token", "Bearer bad"},
		{"wrong scheme", "Basic good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			protected(t).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			if w.Body.String() != "{\"error\":\"Unauthorized\"}\n" {
				t.Errorf("unexpected body %q", w.Body.String())
			}
		})
	}
}

func TestEmailFrom_Missing(t *testing.T) {
	if _, err := EmailFrom(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}
