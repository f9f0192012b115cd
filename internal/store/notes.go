package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
)

const noteColumns = `id, user_id, date, content, ai_parsed, entities, created_at, updated_at`

// UpsertDailyNote creates the note for (userID, date) or overwrites its
// content. Concurrent writers to the same key race; the last write wins.
// Overwriting content clears entities parsed from the previous content.
func (s *Store) UpsertDailyNote(ctx context.Context, userID uuid.UUID, date time.Time, content string) (*DailyNote, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO daily_notes (id, user_id, date, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			content = EXCLUDED.content,
			ai_parsed = false,
			entities = NULL,
			updated_at = now()
		RETURNING `+noteColumns,
		uuid.New(), userID, Day(date), content,
	)
	n, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("upsert daily note: %w", err)
	}
	return n, nil
}

// GetDailyNote returns ErrNotFound when the user has no note for date.
func (s *Store) GetDailyNote(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyNote, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+noteColumns+`
		FROM daily_notes WHERE user_id = $1 AND date = $2`,
		userID, Day(date),
	)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get daily note: %w", err)
	}
	return n, nil
}

// ListRecentDailyNotes returns up to limit notes, newest date first. A limit
// outside 1..DefaultNoteLimit is treated as DefaultNoteLimit.
func (s *Store) ListRecentDailyNotes(ctx context.Context, userID uuid.UUID, limit int) ([]DailyNote, error) {
	if limit <= 0 || limit > DefaultNoteLimit {
		limit = DefaultNoteLimit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+noteColumns+`
		FROM daily_notes WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily notes: %w", err)
	}
	defer rows.Close()

	notes := []DailyNote{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// SetNoteEntities records parsed entities for a note. It only applies while
// the note still holds content; a newer write in between yields ErrNotFound.
func (s *Store) SetNoteEntities(ctx context.Context, noteID uuid.UUID, content string, entities extractor.NoteEntities) error {
	data, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE daily_notes SET entities = $3, ai_parsed = true, updated_at = now()
		WHERE id = $1 AND content = $2`,
		noteID, content, data,
	)
	if err != nil {
		return fmt.Errorf("set note entities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*DailyNote, error) {
	var (
		n        DailyNote
		entities []byte
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Date, &n.Content, &n.AIParsed, &entities, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Date = Day(n.Date)
	if len(entities) > 0 {
		var e extractor.NoteEntities
		if err := json.Unmarshal(entities, &e); err != nil {
			return nil, fmt.Errorf("decode entities: %w", err)
		}
		n.Entities = &e
	}
	return &n, nil
}
