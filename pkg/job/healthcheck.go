package job

import (
	"context"
	"errors"
)

var errNotRunning = errors.New("manager not running")

// Healthcheck reports whether the manager is running and its pool reachable.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return errors.Join(ErrHealthcheckFailed, ErrNotConfigured)
		}

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if !started {
			return errors.Join(ErrHealthcheckFailed, errNotRunning)
		}

		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
