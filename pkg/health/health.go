package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc matches the Healthcheck closures exposed by db, redis and job.
type CheckFunc func(ctx context.Context) error

// Checks maps a check name to its probe.
type Checks map[string]CheckFunc

// Response is the JSON body of a probe.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of a single probe.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures the readiness handler.
type Option func(*config)

// WithTimeout bounds the total time spent running checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{timeout: defaultTimeout, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes checks concurrently and aggregates their results.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	resp := &Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	resp.Checks = make(map[string]Check, len(checks))

	for name, check := range checks {
		wg.Go(func() {
			res := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				res = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = res
			if res.Status == StatusUnhealthy {
				resp.Status = StatusUnhealthy
			}
		})
	}
	wg.Wait()

	return resp
}
