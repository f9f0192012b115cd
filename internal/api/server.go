package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/exeai/internal/auth"
	"github.com/MikeSquared-Agency/exeai/internal/processor"
	"github.com/MikeSquared-Agency/exeai/internal/store"
	"github.com/MikeSquared-Agency/exeai/internal/weather"
)

const (
	maxJSONBytes  = 1 << 20
	maxAudioBytes = 25 << 20
)

// WeatherSource looks up current conditions for a location.
type WeatherSource interface {
	Current(ctx context.Context, location string) (*weather.Report, error)
}

type Server struct {
	router          *chi.Mux
	http            *http.Server
	proc            *processor.Processor
	weather         WeatherSource
	defaultLocation string
	logger          *slog.Logger
}

func NewServer(port int, proc *processor.Processor, sessions auth.SessionResolver, wx WeatherSource, defaultLocation string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:          router,
		proc:            proc,
		weather:         wx,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(sessions, logger))
		r.Get("/notes", s.getNotes)
		r.Post("/notes", s.saveNote)
		r.Post("/tasks/suggest", s.suggestTasks)
		r.Post("/voice/transcribe", s.transcribe)
		r.Post("/voice/analyze", s.analyze)
		r.Get("/weather", s.currentWeather)
		r.Post("/summary/daily", s.dailySummary)
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentUser resolves the authenticated caller, writing 401/404/500 itself
// when that fails.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*store.User, bool) {
	email, err := auth.EmailFrom(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	u, err := s.proc.ResolveUser(r.Context(), email)
	if errors.Is(err, processor.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		s.internalError(w, "resolve user", err)
		return nil, false
	}
	return u, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.internalErrorMsg(w, op, err, "Internal server error")
}

func (s *Server) internalErrorMsg(w http.ResponseWriter, op string, err error, msg string) {
	s.logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
