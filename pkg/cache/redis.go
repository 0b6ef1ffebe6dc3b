package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const clearBatch = 100

// RedisOption configures a Redis cache.
type RedisOption func(*Redis[struct{}])

// Redis stores values in Redis under "{prefix}:{key}", encoded by its
// Marshaler. Sessions use it when REDIS_URL is configured.
//
//	tokens := cache.NewRedis[string](client, cache.JSONMarshaler[string]{},
//		cache.WithPrefix("session_token"),
//	)
type Redis[V any] struct {
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix namespaces keys so several caches can share one database.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis[struct{}]) { r.prefix = prefix }
}

// WithRedisDefaultTTL is used when Set gets a zero TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(r *Redis[struct{}]) { r.defaultTTL = d }
}

// NewRedis wraps a client from pkg/redis. A nil Marshaler selects
// JSONMarshaler.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	settings := &Redis[struct{}]{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(settings)
	}
	if m == nil {
		m = JSONMarshaler[V]{}
	}
	return &Redis[V]{
		client:     client,
		marshaler:  m,
		prefix:     settings.prefix,
		defaultTTL: settings.defaultTTL,
	}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, ErrNotFound
	case err != nil:
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

// Set follows the Cache TTL rules; a negative TTL maps to Redis' "no
// expiry" of 0.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes the keys under the prefix, or flushes the whole database
// when there is none.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	batch := make([]string, 0, clearBatch)
	iter := r.client.Scan(ctx, 0, r.prefix+":*", clearBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

var _ Cache[any] = (*Redis[any])(nil)
