package redis

import (
	"context"
	"errors"
	"io"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrFailedToParseURL   = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)

// Healthcheck is the "redis" readiness probe; it fails when sessions
// cannot be read or written.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes client after the HTTP server has drained.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		if client == nil {
			return nil
		}
		return client.Close()
	}
}
