package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

const maxRequestIDLength = 128

type requestIDConfig struct {
	generator      func() string
	responseHeader string
	headers        []string
}

type RequestIDOption func(*requestIDConfig)

func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headers = headers }
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generator = gen
		}
	}
}

// RequestID stores a request ID in the context and echoes it in the
// X-Request-ID response header. Upstream IDs longer than 128 bytes are
// replaced.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &requestIDConfig{
		headers:        DefaultRequestIDHeaders,
		generator:      uuid.NewString,
		responseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var id string
			for _, h := range cfg.headers {
				if v := c.Header(h); v != "" && len(v) <= maxRequestIDLength {
					id = v
					break
				}
			}
			if id == "" {
				id = cfg.generator()
			}
			c.Set(requestIDKey{}, id)
			c.SetHeader(cfg.responseHeader, id)
			return next(c)
		}
	}
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds request_id to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
