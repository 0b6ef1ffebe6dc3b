package middlewares

import (
	"net/http"
	"runtime"

	"github.com/dmitrymomot/locallibrary/internal"
)

const DefaultStackSize = 4 << 10

type recoverConfig struct {
	stackSize    int
	disableStack bool
}

type RecoverOption func(*recoverConfig)

func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}

func WithoutRecoverStack() RecoverOption {
	return func(cfg *recoverConfig) { cfg.disableStack = true }
}

// Recover converts a panic into a PanicError. http.ErrAbortHandler is
// re-raised so net/http can abort the connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(r)
				}
				var stack []byte
				if !cfg.disableStack {
					stack = make([]byte, cfg.stackSize)
					stack = stack[:runtime.Stack(stack, false)]
				}
				c.LogError("panic recovered", "panic", r, "stack", string(stack))
				err = &PanicError{Value: r, Stack: stack}
			}()
			return next(c)
		}
	}
}
