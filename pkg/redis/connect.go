package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	poolSize      int
	minIdleConns  int
	maxIdleTime   time.Duration
	maxLifetime   time.Duration
	retryAttempts int
	retryInterval time.Duration
	ioTimeout     time.Duration
	dialTimeout   time.Duration
}

func defaultOptions() *options {
	return &options{
		poolSize:      10,
		minIdleConns:  2,
		maxIdleTime:   10 * time.Minute,
		maxLifetime:   30 * time.Minute,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		ioTimeout:     3 * time.Second,
		dialTimeout:   5 * time.Second,
	}
}

// WithPoolSize caps open connections. Non-positive values are ignored.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithMinIdleConns sets how many idle connections are kept warm.
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minIdleConns = n
		}
	}
}

// WithRetry sets startup ping attempts and the base backoff interval.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		if interval > 0 {
			o.retryInterval = interval
		}
	}
}

// WithTimeouts sets the per-command read/write timeout and the dial timeout.
func WithTimeouts(io, dial time.Duration) Option {
	return func(o *options) {
		o.ioTimeout = io
		o.dialTimeout = dial
	}
}

// Connect opens a client from cfg. An empty URL yields ErrEmptyConnectionURL
// so callers can treat Redis as optional.
func Connect(ctx context.Context, cfg Config, opts ...Option) (redis.UniversalClient, error) {
	base := []Option{
		WithPoolSize(cfg.PoolSize),
		WithMinIdleConns(cfg.MinIdleConns),
		WithRetry(cfg.RetryAttempts, cfg.RetryInterval),
	}
	return Open(ctx, cfg.URL, append(base, opts...)...)
}

// Open creates a client for a redis:// or rediss:// URL and pings it,
// retrying with linear backoff.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	ro.PoolSize = o.poolSize
	ro.MinIdleConns = o.minIdleConns
	ro.ConnMaxIdleTime = o.maxIdleTime
	ro.ConnMaxLifetime = o.maxLifetime
	ro.ReadTimeout = o.ioTimeout
	ro.WriteTimeout = o.ioTimeout
	ro.DialTimeout = o.dialTimeout

	return connect(ctx, ro, o.retryAttempts, o.retryInterval)
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	var lastErr error
	for i := range max(attempts, 1) {
		client := redis.NewClient(opts)
		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
