package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures error reporting.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	// Only errors reach Sentry when set to error; otherwise warnings too.
	MinLevel string `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

// NewWithSentry creates a logger writing to stdout and Sentry. An empty DSN
// or a failed Sentry init falls back to New.
func NewWithSentry(cfg Config, scfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	base := newBaseHandler(cfg)
	if scfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         scfg.DSN,
		Environment: scfg.Environment,
		Release:     scfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(scfg.MinLevel) >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}
	sh := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(base, sh), extractors...))
}

// FlushSentry returns a shutdown hook that waits for buffered Sentry events.
func FlushSentry(timeout time.Duration) func(context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
