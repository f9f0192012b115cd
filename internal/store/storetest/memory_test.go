package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
	"github.com/MikeSquared-Agency/exeai/internal/store"
)

func TestMemory_UpsertLastWriteWins(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := m.AddUser("a@example.com", "")
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	first, _ := m.UpsertDailyNote(ctx, u.ID, date, "one")
	second, _ := m.UpsertDailyNote(ctx, u.ID, date.Add(10*time.Hour), "two")

	if first.ID != second.ID {
		t.Errorf("expected same note id for the same day")
	}
	if m.NoteCount(u.ID) != 1 {
		t.Errorf("expected one row, got %d", m.NoteCount(u.ID))
	}
	got, err := m.GetDailyNote(ctx, u.ID, date)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "two" {
		t.Errorf("expected second content, got %q", got.Content)
	}
}

func TestMemory_ListLimitAndOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := m.AddUser("a@example.com", "")
	other := m.AddUser("b@example.com", "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, i := range []int{5, 40, 2, 17, 33, 0, 21, 9, 12, 38, 1, 3, 4, 6, 7, 8, 10, 11, 13, 14, 15, 16, 18, 19, 20, 22, 23, 24, 25, 26, 27, 28} {
		m.UpsertDailyNote(ctx, u.ID, start.AddDate(0, 0, i), "n")
	}
	m.UpsertDailyNote(ctx, other.ID, start.AddDate(0, 2, 0), "someone else")

	notes, err := m.ListRecentDailyNotes(ctx, u.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != store.DefaultNoteLimit {
		t.Fatalf("expected %d notes, got %d", store.DefaultNoteLimit, len(notes))
	}
	if !notes[0].Date.Equal(start.AddDate(0, 0, 40)) {
		t.Errorf("expected newest first, got %v", notes[0].Date)
	}
	for i := 1; i < len(notes); i++ {
		if !notes[i-1].Date.After(notes[i].Date) {
			t.Fatalf("not strictly descending at %d", i)
		}
		if notes[i].UserID != u.ID {
			t.Fatalf("listed another user's note")
		}
	}
}

func TestMemory_SetNoteEntitiesStaleContent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := m.AddUser("a@example.com", "")
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	n, _ := m.UpsertDailyNote(ctx, u.ID, date, "old")
	m.UpsertDailyNote(ctx, u.ID, date, "new")

	err := m.SetNoteEntities(ctx, n.ID, "old", extractor.EmptyNoteEntities())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for stale content, got %v", err)
	}
}

func TestMemory_RecordingOwnership(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := m.AddUser("a@example.com", "")

	r, _ := m.CreateVoiceRecording(ctx, u.ID, "upload:a.webm", "hi", 1)

	err := m.UpdateVoiceRecordingAnalysis(ctx, r.ID, uuid.New(), extractor.EmptyMeetingAnalysis())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := m.UpdateVoiceRecordingAnalysis(ctx, r.ID, u.ID, extractor.MeetingAnalysis{Summary: "s"}); err != nil {
		t.Fatal(err)
	}
	got, _ := m.GetVoiceRecording(ctx, r.ID, u.ID)
	if !got.Analyzed || got.MOM != "s" {
		t.Errorf("expected analysis applied, got %+v", got)
	}
}
