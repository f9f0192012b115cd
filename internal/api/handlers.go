package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/exeai/internal/processor"
	"github.com/MikeSquared-Agency/exeai/internal/store"
	"github.com/MikeSquared-Agency/exeai/internal/weather"
)

// getNotes returns the note for ?date=, or null, or the recent notes list.
func (s *Server) getNotes(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := store.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		note, err := s.proc.GetNote(r.Context(), u.ID, date)
		if err != nil {
			s.internalError(w, "get note", err)
			return
		}
		writeJSON(w, http.StatusOK, note)
		return
	}

	notes, err := s.proc.ListNotes(r.Context(), u.ID)
	if err != nil {
		s.internalError(w, "list notes", err)
		return
	}
	if notes == nil {
		notes = []store.DailyNote{}
	}
	writeJSON(w, http.StatusOK, notes)
}

type saveNoteRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

func (s *Server) saveNote(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Date and content are required")
		return
	}
	date, err := store.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	note, err := s.proc.SaveNote(r.Context(), u.ID, date, req.Content)
	if err != nil {
		s.internalError(w, "save note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type suggestRequest struct {
	Content string `json:"content"`
}

func (s *Server) suggestTasks(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	result, err := s.proc.SuggestTasks(r.Context(), req.Content)
	if err != nil {
		s.internalErrorMsg(w, "suggest tasks", err, "Failed to generate suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": result.Value})
}

func (s *Server) transcribe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Audio file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.internalError(w, "read audio", err)
		return
	}

	rec, err := s.proc.TranscribeRecording(r.Context(), u.ID, processor.Audio{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if errors.Is(err, processor.ErrEmptyAudio) {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	if err != nil {
		s.internalErrorMsg(w, "transcribe", err, "Failed to transcribe audio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":            rec.ID,
		"transcription": rec.Transcription,
	})
}

type analyzeRequest struct {
	RecordingID   string `json:"recordingId"`
	Transcription string `json:"transcription"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Transcription) == "" {
		writeError(w, http.StatusBadRequest, "Transcription is required")
		return
	}

	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var recordingID *uuid.UUID
	if req.RecordingID != "" {
		id, err := uuid.Parse(req.RecordingID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		recordingID = &id
	}

	result, err := s.proc.AnalyzeRecording(r.Context(), u.ID, recordingID, req.Transcription)
	if errors.Is(err, processor.ErrRecordingNotFound) {
		writeError(w, http.StatusNotFound, "Recording not found")
		return
	}
	if err != nil {
		s.internalErrorMsg(w, "analyze", err, "Failed to analyze transcript")
		return
	}
	writeJSON(w, http.StatusOK, result.Value)
}

func (s *Server) currentWeather(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	location := u.Location
	if location == "" {
		location = s.defaultLocation
	}

	report, err := s.weather.Current(r.Context(), location)
	if errors.Is(err, weather.ErrNotConfigured) {
		s.internalErrorMsg(w, "weather", err, "Weather API key not configured")
		return
	}
	if err != nil {
		s.internalErrorMsg(w, "weather", err, "Failed to fetch weather data")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type summaryRequest struct {
	Date     string           `json:"date"`
	Tasks    []map[string]any `json:"tasks"`
	Expenses []map[string]any `json:"expenses"`
}

func (s *Server) dailySummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "Date is required")
		return
	}
	date, err := store.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	result, err := s.proc.DailySummary(r.Context(), u.ID, date, req.Tasks, req.Expenses)
	if err != nil {
		s.internalErrorMsg(w, "daily summary", err, "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": result.Value})
}
