package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UserByEmail resolves an authenticated email to its user record.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, location, timezone
		FROM users WHERE email = $1`, email)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Location, &u.Timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// SessionEmail returns the email bound to an unexpired session token.
func (s *Store) SessionEmail(ctx context.Context, token string) (string, error) {
	var email string
	err := s.pool.QueryRow(ctx, `
		SELECT email FROM sessions
		WHERE token = $1 AND expires_at > now()`, token).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("query session: %w", err)
	}
	return email, nil
}
