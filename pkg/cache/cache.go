package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"
)

// Cache stores values of one type under string keys.
//
// A ttl passed to Set is read as follows: positive values expire after that
// long, zero falls back to the backend default, negative never expires.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)

	// Clear drops every entry owned by this cache, not the whole backend.
	Clear(ctx context.Context) error
	Close() error
}

// Marshaler turns values into bytes for backends such as Redis.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// Numbers held in interface values decode as json.Number, so an int stored
// in a session map comes back as an int rather than a float64.
var jsonAPI = jsoniter.Config{
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// JSONMarshaler encodes values with jsoniter.
type JSONMarshaler[V any] struct{}

func (JSONMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSONMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := jsonAPI.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var loads singleflight.Group

type loaded[V any] struct {
	value V
	ttl   time.Duration
}

// GetOrSet returns the value cached under key, loading it with load on a
// miss. Concurrent misses on the same key wait for a single load. A failed
// load is returned as is and leaves the cache untouched; a failed write
// after a successful load is ignored.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	// Caches of different value types may share key names.
	flight := fmt.Sprintf("%T\x00%s", c, key)
	res, err, _ := loads.Do(flight, func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return loaded[V]{value: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	l := res.(loaded[V])
	_ = c.Set(ctx, key, l.value, l.ttl)
	return l.value, nil
}
