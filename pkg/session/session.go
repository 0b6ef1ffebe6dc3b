package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// Session is a server-side session addressed by an opaque cookie token.
type Session struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       *string        `json:"user_id,omitempty"` // nil for anonymous sessions
	Values       map[string]any `json:"values,omitempty"`
	ID           string         `json:"id"`
	Token        string         `json:"token"` // never equal to ID
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`

	dirty bool
	isNew bool
}

// New creates a dirty, unsaved session.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user is bound to the session.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// SetUser binds userID to the session. An empty id makes it anonymous.
func (s *Session) SetUser(userID string) {
	if userID == "" {
		s.UserID = nil
	} else {
		s.UserID = &userID
	}
	s.dirty = true
}

// SetValue stores val under key and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes key; the session is marked dirty only if key existed.
func (s *Session) DeleteValue(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether the session is past ExpiresAt.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a copy whose Values map can be mutated independently.
// Nested values are shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	return &c
}

// Value returns the value under key asserted to T.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, val)
	}
	return typed, nil
}

// ValueOr is Value with a fallback for missing or mistyped keys.
func ValueOr[T any](s *Session, key string, fallback T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return fallback
	}
	return val
}

// IntValue reads an integer that may have been decoded from JSON as
// float64 or json.Number by a serializing store.
func IntValue(s *Session, key string) (int64, error) {
	if s == nil {
		return 0, ErrNotFound
	}
	val, ok := s.GetValue(key)
	if !ok {
		return 0, ErrNotFound
	}
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, val)
	}
}
