package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
)

// CreateVoiceRecording stores a transcribed clip. Analysis fields start empty.
func (s *Store) CreateVoiceRecording(ctx context.Context, userID uuid.UUID, audioRef, transcription string, duration int) (*VoiceRecording, error) {
	r := VoiceRecording{
		ID:            uuid.New(),
		UserID:        userID,
		AudioURL:      audioRef,
		Transcription: transcription,
		Duration:      duration,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO voice_recordings (id, user_id, audio_url, transcription, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at`,
		r.ID, r.UserID, r.AudioURL, r.Transcription, r.Duration,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert voice recording: %w", err)
	}
	return &r, nil
}

// UpdateVoiceRecordingAnalysis writes a meeting analysis onto a recording
// owned by userID. It returns ErrNotFound when no such recording exists.
func (s *Store) UpdateVoiceRecordingAnalysis(ctx context.Context, recordingID, userID uuid.UUID, a extractor.MeetingAnalysis) error {
	decisions, err := json.Marshal(a.KeyDecisions)
	if err != nil {
		return fmt.Errorf("marshal decisions: %w", err)
	}
	items, err := json.Marshal(a.ActionItems)
	if err != nil {
		return fmt.Errorf("marshal action items: %w", err)
	}
	followUps, err := json.Marshal(a.FollowUps)
	if err != nil {
		return fmt.Errorf("marshal follow-ups: %w", err)
	}
	topics, err := json.Marshal(a.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE voice_recordings SET
			analyzed = true,
			mom = $3,
			key_decisions = $4,
			action_items = $5,
			follow_ups = $6,
			detected_pages = $7,
			updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		recordingID, userID, a.Summary, decisions, items, followUps, topics,
	)
	if err != nil {
		return fmt.Errorf("update voice recording: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVoiceRecording fetches a recording owned by userID.
func (s *Store) GetVoiceRecording(ctx context.Context, recordingID, userID uuid.UUID) (*VoiceRecording, error) {
	var (
		r                                   VoiceRecording
		mom                                 *string
		decisions, items, followUps, topics []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, audio_url, transcription, duration, analyzed, mom,
			key_decisions, action_items, follow_ups, detected_pages, created_at, updated_at
		FROM voice_recordings WHERE id = $1 AND user_id = $2`,
		recordingID, userID,
	).Scan(&r.ID, &r.UserID, &r.AudioURL, &r.Transcription, &r.Duration, &r.Analyzed, &mom,
		&decisions, &items, &followUps, &topics, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get voice recording: %w", err)
	}
	if mom != nil {
		r.MOM = *mom
	}
	for _, f := range []struct {
		raw  []byte
		dest any
	}{
		{decisions, &r.KeyDecisions},
		{items, &r.ActionItems},
		{followUps, &r.FollowUps},
		{topics, &r.DetectedPages},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	return &r, nil
}
