package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMemory[V any](t *testing.T, opts ...cache.MemoryOption) (*cache.Memory[V], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]cache.MemoryOption{cache.WithClock(clock.Now), cache.WithCleanupInterval(0)}, opts...)
	c := cache.NewMemory[V](opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c, clock
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c, _ := newMemory[string](t)
		_, err := c.Get(ctx, "nope")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stored value is returned", func(t *testing.T) {
		t.Parallel()
		c, _ := newMemory[int](t)
		require.NoError(t, c.Set(ctx, "answer", 42, time.Minute))
		v, err := c.Get(ctx, "answer")
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		t.Parallel()
		c, clock := newMemory[string](t)
		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		clock.Advance(59 * time.Second)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		clock.Advance(2 * time.Second)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()
		c, clock := newMemory[string](t, cache.WithDefaultTTL(10*time.Second))
		require.NoError(t, c.Set(ctx, "k", "v", 0))
		clock.Advance(11 * time.Second)
		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		c, clock := newMemory[string](t)
		require.NoError(t, c.Set(ctx, "k", "v", -1))
		clock.Advance(1000 * time.Hour)
		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemory_DeleteAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMemory[string](t)

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "missing"))

	ok, _ := c.Has(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMemory[int](t, cache.WithMaxEntries(2))

	var evicted []string
	var mu sync.Mutex
	c.SetEvictCallback(func(key string, _ int) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, key)
	})

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	_, err := c.Get(ctx, "a") // a becomes most recent
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"b"}, evicted)
}

func TestMemory_Janitor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithCleanupInterval(10 * time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "short", "v", 5*time.Millisecond))
	require.NoError(t, c.Set(ctx, "long", "v", time.Hour))

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[string]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrClosed)
	require.ErrorIs(t, c.Set(ctx, "k", "v", 0), cache.ErrClosed)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("loads once under concurrency", func(t *testing.T) {
		t.Parallel()
		c, _ := newMemory[string](t)
		var calls atomic.Int32
		start := make(chan struct{})

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				v, err := cache.GetOrSet(ctx, c, "genres-concurrent", func(context.Context) (string, time.Duration, error) {
					calls.Add(1)
					time.Sleep(20 * time.Millisecond)
					return "loaded", time.Minute, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, "loaded", v)
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("returns cached value without calling loader", func(t *testing.T) {
		t.Parallel()
		c, _ := newMemory[string](t)
		require.NoError(t, c.Set(ctx, "languages-hit", "cached", time.Minute))
		v, err := cache.GetOrSet(ctx, c, "languages-hit", func(context.Context) (string, time.Duration, error) {
			t.Fatal("loader must not run")
			return "", 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "cached", v)
	})

	t.Run("loader error is not cached", func(t *testing.T) {
		t.Parallel()
		c, _ := newMemory[string](t)
		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "failing", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)
		ok, _ := c.Has(ctx, "failing")
		assert.False(t, ok)
	})
}

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	m := cache.JSONMarshaler[map[string]any]{}
	data, err := m.Marshal(map[string]any{"num_visits": 3, "role": "librarian"})
	require.NoError(t, err)

	v, err := m.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), v["num_visits"])
	assert.Equal(t, "librarian", v["role"])

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)
}
