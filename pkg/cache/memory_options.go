package cache

import "time"

// DefaultMaxEntries bounds the in-memory cache when WithMaxEntries is not set.
const DefaultMaxEntries = 10_000

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	clock           func() time.Time
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		clock:           time.Now,
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
		maxEntries:      DefaultMaxEntries,
	}
}

// WithDefaultTTL sets the expiry used when Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the janitor drops expired entries.
// Zero disables the janitor. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of entries; the least recently used entry
// is evicted first. Non-positive values keep the default.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.clock = now
		}
	}
}
