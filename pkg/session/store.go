package session

import (
	"context"
	"time"
)

// Store persists sessions.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get looks a session up by cookie token. It returns ErrNotFound for
	// unknown tokens and ErrExpired for stale sessions.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves s, including a rotated token.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session of a user.
	DeleteByUserID(ctx context.Context, userID string) error

	// Touch bumps LastActiveAt.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}
