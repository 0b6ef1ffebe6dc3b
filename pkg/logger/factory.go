package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the output format and minimum level.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	// Output defaults to os.Stdout.
	Output io.Writer `env:"-"`
}

// New creates a logger writing to cfg.Output with the given context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newBaseHandler(cfg), extractors...))
}

func newBaseHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to slog
// levels. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
