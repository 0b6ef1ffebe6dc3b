package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck is the "postgres" readiness probe.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil {
			return ErrHealthcheckFailed
		}
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes pool once in-flight requests and jobs are done.
// Closing twice is safe.
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		if pool != nil {
			pool.Close()
		}
		return nil
	}
}
