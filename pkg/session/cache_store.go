package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/locallibrary/pkg/cache"
)

// CacheStore keeps sessions in any cache.Cache backend: an in-process LRU
// for a single instance or Redis when several instances share sessions.
//
// Three keyspaces are used: sessions by ID, a token to ID index and a user
// to session IDs index for DeleteByUserID.
type CacheStore struct {
	sessions cache.Cache[Session]
	tokens   cache.Cache[string]
	users    cache.Cache[[]string]
	mu       sync.Mutex // serializes user index updates within this process
}

// NewCacheStore creates a store over the given caches. The caches may share
// one backend as long as their key prefixes differ.
func NewCacheStore(sessions cache.Cache[Session], tokens cache.Cache[string], users cache.Cache[[]string]) *CacheStore {
	return &CacheStore{sessions: sessions, tokens: tokens, users: users}
}

// NewMemoryStore creates a CacheStore backed by in-memory caches.
func NewMemoryStore(opts ...cache.MemoryOption) *CacheStore {
	return NewCacheStore(
		cache.NewMemory[Session](opts...),
		cache.NewMemory[string](opts...),
		cache.NewMemory[[]string](opts...),
	)
}

// Stale IDs in the user index are harmless, so it outlives any session.
const userIndexTTL = 90 * 24 * time.Hour

func ttlFor(s *Session) time.Duration {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		// Already expired; keep it briefly so Get can report ErrExpired.
		return time.Second
	}
	return ttl
}

func (st *CacheStore) Create(ctx context.Context, s *Session) error {
	return st.save(ctx, s, "")
}

func (st *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	id, err := st.tokens.Get(ctx, token)
	if err != nil {
		return nil, translate(err)
	}
	stored, err := st.sessions.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if stored.Token != token {
		// Stale index entry left by a rotation.
		return nil, ErrNotFound
	}
	s := stored.Clone()
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s, nil
}

func (st *CacheStore) Update(ctx context.Context, s *Session) error {
	prev, err := st.sessions.Get(ctx, s.ID)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("session: load for update: %w", err)
	}
	oldToken := ""
	if prev.Token != s.Token {
		oldToken = prev.Token
	}
	if prev.UserID != nil && (s.UserID == nil || *prev.UserID != *s.UserID) {
		if err := st.unindexUser(ctx, *prev.UserID, s.ID); err != nil {
			return err
		}
	}
	return st.save(ctx, s, oldToken)
}

func (st *CacheStore) Delete(ctx context.Context, id string) error {
	stored, err := st.sessions.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load for delete: %w", err)
	}
	if err := st.tokens.Delete(ctx, stored.Token); err != nil {
		return err
	}
	if stored.UserID != nil {
		if err := st.unindexUser(ctx, *stored.UserID, id); err != nil {
			return err
		}
	}
	return st.sessions.Delete(ctx, id)
}

func (st *CacheStore) DeleteByUserID(ctx context.Context, userID string) error {
	st.mu.Lock()
	ids, err := st.users.Get(ctx, userID)
	st.mu.Unlock()
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		errs = append(errs, st.Delete(ctx, id))
	}
	errs = append(errs, st.users.Delete(ctx, userID))
	return errors.Join(errs...)
}

func (st *CacheStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	stored, err := st.sessions.Get(ctx, id)
	if err != nil {
		return translate(err)
	}
	stored.LastActiveAt = lastActiveAt
	return st.sessions.Set(ctx, id, stored, ttlFor(&stored))
}

func (st *CacheStore) save(ctx context.Context, s *Session, oldToken string) error {
	ttl := ttlFor(s)
	if err := st.sessions.Set(ctx, s.ID, *s.Clone(), ttl); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	if err := st.tokens.Set(ctx, s.Token, s.ID, ttl); err != nil {
		return fmt.Errorf("session: index token: %w", err)
	}
	if oldToken != "" {
		if err := st.tokens.Delete(ctx, oldToken); err != nil {
			return fmt.Errorf("session: drop rotated token: %w", err)
		}
	}
	if s.UserID != nil {
		return st.indexUser(ctx, *s.UserID, s.ID, ttl)
	}
	return nil
}

func (st *CacheStore) indexUser(ctx context.Context, userID, id string, ttl time.Duration) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids, err := st.users.Get(ctx, userID)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return st.users.Set(ctx, userID, append(ids, id), max(ttl, userIndexTTL))
}

func (st *CacheStore) unindexUser(ctx context.Context, userID, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids, err := st.users.Get(ctx, userID)
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
	if len(ids) == 0 {
		return st.users.Delete(ctx, userID)
	}
	return st.users.Set(ctx, userID, ids, userIndexTTL)
}

// Close releases the underlying caches.
func (st *CacheStore) Close() error {
	return errors.Join(st.sessions.Close(), st.tokens.Close(), st.users.Close())
}

func translate(err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var _ Store = (*CacheStore)(nil)
