// Package storetest provides an in-memory stand-in for the PostgreSQL store.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
	"github.com/MikeSquared-Agency/exeai/internal/store"
)

type noteKey struct {
	userID uuid.UUID
	day    time.Time
}

// Memory mirrors the store's keying and ordering rules.
type Memory struct {
	mu         sync.Mutex
	users      map[string]store.User
	sessions   map[string]string
	notes      map[noteKey]*store.DailyNote
	recordings map[uuid.UUID]*store.VoiceRecording
	now        func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[string]store.User),
		sessions:   make(map[string]string),
		notes:      make(map[noteKey]*store.DailyNote),
		recordings: make(map[uuid.UUID]*store.VoiceRecording),
		now:        time.Now,
	}
}

// AddUser registers a user and returns it with a fresh id.
func (m *Memory) AddUser(email, location string) store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := store.User{ID: uuid.New(), Email: email, Location: location, Timezone: "UTC"}
	m.users[email] = u
	return u
}

// AddSession binds token to email.
func (m *Memory) AddSession(token, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = email
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) SessionEmail(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, ok := m.sessions[token]
	if !ok {
		return "", store.ErrNotFound
	}
	return email, nil
}

func (m *Memory) UpsertDailyNote(_ context.Context, userID uuid.UUID, date time.Time, content string) (*store.DailyNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := noteKey{userID: userID, day: store.Day(date)}
	now := m.now()
	n, ok := m.notes[key]
	if !ok {
		n = &store.DailyNote{ID: uuid.New(), UserID: userID, Date: key.day, CreatedAt: now}
		m.notes[key] = n
	}
	n.Content = content
	n.AIParsed = false
	n.Entities = nil
	n.UpdatedAt = now
	cp := *n
	return &cp, nil
}

func (m *Memory) GetDailyNote(_ context.Context, userID uuid.UUID, date time.Time) (*store.DailyNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteKey{userID: userID, day: store.Day(date)}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *Memory) ListRecentDailyNotes(_ context.Context, userID uuid.UUID, limit int) ([]store.DailyNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > store.DefaultNoteLimit {
		limit = store.DefaultNoteLimit
	}
	notes := []store.DailyNote{}
	for k, n := range m.notes {
		if k.userID == userID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Date.After(notes[j].Date) })
	if len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (m *Memory) SetNoteEntities(_ context.Context, noteID uuid.UUID, content string, entities extractor.NoteEntities) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.ID == noteID && n.Content == content {
			e := entities
			n.Entities = &e
			n.AIParsed = true
			n.UpdatedAt = m.now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *Memory) CreateVoiceRecording(_ context.Context, userID uuid.UUID, audioRef, transcription string, duration int) (*store.VoiceRecording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	r := &store.VoiceRecording{
		ID:            uuid.New(),
		UserID:        userID,
		AudioURL:      audioRef,
		Transcription: transcription,
		Duration:      duration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.recordings[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *Memory) UpdateVoiceRecordingAnalysis(_ context.Context, recordingID, userID uuid.UUID, a extractor.MeetingAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recordings[recordingID]
	if !ok || r.UserID != userID {
		return store.ErrNotFound
	}
	r.Analyzed = true
	r.MOM = a.Summary
	r.KeyDecisions = a.KeyDecisions
	r.ActionItems = a.ActionItems
	r.FollowUps = a.FollowUps
	r.DetectedPages = a.Topics
	r.UpdatedAt = m.now()
	return nil
}

func (m *Memory) GetVoiceRecording(_ context.Context, recordingID, userID uuid.UUID) (*store.VoiceRecording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recordings[recordingID]
	if !ok || r.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// NoteCount reports how many note rows exist for userID.
func (m *Memory) NoteCount(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.notes {
		if k.userID == userID {
			n++
		}
	}
	return n
}

// RecordingCount reports how many recordings exist.
func (m *Memory) RecordingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recordings)
}
