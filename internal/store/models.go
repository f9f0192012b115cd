package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
)

// DefaultNoteLimit caps note listings.
const DefaultNoteLimit = 30

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Location string    `json:"location,omitempty"`
	Timezone string    `json:"timezone"`
}

// DailyNote is unique per (UserID, Date). Date is a UTC calendar day.
type DailyNote struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"userId"`
	Date      time.Time               `json:"date"`
	Content   string                  `json:"content"`
	AIParsed  bool                    `json:"aiParsed"`
	Entities  *extractor.NoteEntities `json:"entities,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// VoiceRecording holds a transcription from creation; the analysis fields
// stay empty until the recording is analyzed.
type VoiceRecording struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"userId"`
	AudioURL      string                 `json:"audioUrl"`
	Transcription string                 `json:"transcription"`
	Duration      int                    `json:"duration"` // seconds, estimated
	Analyzed      bool                   `json:"analyzed"`
	MOM           string                 `json:"mom,omitempty"`
	KeyDecisions  []string               `json:"keyDecisions,omitempty"`
	ActionItems   []extractor.ActionItem `json:"actionItems,omitempty"`
	FollowUps     []string               `json:"followUps,omitempty"`
	DetectedPages []string               `json:"detectedPages,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts YYYY-MM-DD or an RFC3339 timestamp and returns the UTC day.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Day(t), nil
}
