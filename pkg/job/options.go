package job

import (
	"context"
	"log/slog"
)

type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []schedule
	maxWorkers int
}

type schedule struct {
	name string
	cron string
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// Option configures the Manager.
type Option func(*config)

// WithTask registers a one-off task handling payloads of type P.
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), typedExecutor(task.Handle))
	}
}

// WithScheduledTask registers a periodic task run on its cron Schedule
// (minute hour day-of-month month day-of-week).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), scheduledExecutor(task.Handle))
		c.schedules = append(c.schedules, schedule{name: task.Name(), cron: task.Schedule()})
	}
}

// WithQueue adds a named queue with its own worker limit.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the default queue's worker limit. Default: 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
