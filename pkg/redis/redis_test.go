package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "empty url", url: "", want: ErrEmptyConnectionURL},
		{name: "http scheme", url: "http://localhost:6379", want: ErrFailedToParseURL},
		{name: "no scheme", url: "localhost:6379", want: ErrFailedToParseURL},
		{name: "bad port", url: "redis://localhost:notaport", want: ErrFailedToParseURL},
		{name: "bad database", url: "redis://localhost:6379/notanumber", want: ErrFailedToParseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := Open(ctx, tt.url)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, client)
		})
	}
}

func TestConnect_DisabledConfig(t *testing.T) {
	t.Parallel()
	cfg := Config{}
	assert.False(t, cfg.Enabled())

	_, err := Connect(context.Background(), cfg)
	require.ErrorIs(t, err, ErrEmptyConnectionURL)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()
	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()
	boom := errors.New("close failed")
	c := &closer{err: boom}

	err := Shutdown(c)(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, c.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("returns on cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("waits the full duration", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		require.NoError(t, wait(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()
	o := defaultOptions()
	WithPoolSize(0)(o)
	WithPoolSize(25)(o)
	WithMinIdleConns(4)(o)
	WithRetry(0, 0)(o)
	WithTimeouts(time.Second, 2*time.Second)(o)

	assert.Equal(t, 25, o.poolSize)
	assert.Equal(t, 4, o.minIdleConns)
	assert.Equal(t, 3, o.retryAttempts)
	assert.Equal(t, 2*time.Second, o.retryInterval)
	assert.Equal(t, time.Second, o.ioTimeout)
	assert.Equal(t, 2*time.Second, o.dialTimeout)
}
