package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	expiresAt time.Time // zero means no expiry
	value     V
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache with per-entry TTL and LRU eviction once
// the configured capacity is reached.
//
// Expired entries are dropped lazily on access and periodically by a
// janitor goroutine that Close stops.
type Memory[V any] struct {
	lru     *lru.Cache[string, entry[V]]
	opts    *memoryOptions
	now     func() time.Time
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	onEvict func(key string, value V)
}

// NewMemory creates a new in-memory cache.
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithMaxEntries(10_000),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		opts: o,
		now:  o.clock,
		done: make(chan struct{}),
	}
	// Size is validated by defaultMemoryOptions/WithMaxEntries, so New cannot fail.
	m.lru, _ = lru.NewWithEvict(o.maxEntries, func(key string, e entry[V]) {
		if fn := m.evictCallback(); fn != nil {
			fn(key, e.value)
		}
	})

	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// SetEvictCallback registers fn to be called whenever an entry leaves the
// cache, whether by LRU pressure, expiry, Delete or Clear.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

func (m *Memory[V]) evictCallback() func(string, V) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.onEvict
}

func (m *Memory[V]) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Get returns the value for key, or ErrNotFound when it is missing or expired.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	if m.isClosed() {
		return zero, ErrClosed
	}
	e, ok := m.lru.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if e.expired(m.now()) {
		m.lru.Remove(key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key. A zero ttl uses the default TTL, a negative
// ttl stores the value without expiry.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.isClosed() {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if m.isClosed() {
		return ErrClosed
	}
	m.lru.Remove(key)
	return nil
}

// Has reports whether key holds a live entry. It does not refresh recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	if m.isClosed() {
		return false, ErrClosed
	}
	e, ok := m.lru.Peek(key)
	if !ok {
		return false, nil
	}
	return !e.expired(m.now()), nil
}

// Clear removes every entry.
func (m *Memory[V]) Clear(_ context.Context) error {
	if m.isClosed() {
		return ErrClosed
	}
	m.lru.Purge()
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are collected.
func (m *Memory[V]) Len() int {
	return m.lru.Len()
}

// Close stops the janitor. Further operations return ErrClosed.
// Calling Close more than once is safe.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.deleteExpired()
		case <-m.done:
			return
		}
	}
}

func (m *Memory[V]) deleteExpired() {
	now := m.now()
	for _, key := range m.lru.Keys() {
		if e, ok := m.lru.Peek(key); ok && e.expired(now) {
			m.lru.Remove(key)
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
