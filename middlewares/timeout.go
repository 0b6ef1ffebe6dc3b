package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/locallibrary/internal"
)

const DefaultTimeout = 30 * time.Second

// Timeout runs the handler with a deadline of d on a detached context that
// buffers its response. If the handler finishes in time the buffer is
// copied out. Otherwise a TimeoutError is returned and every later write
// from the handler fails with http.ErrHandlerTimeout.
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			tw := &timeoutWriter{header: make(http.Header)}
			dc, adopt := internal.Detach(c, tw)

			ctx, cancel := context.WithTimeout(dc.Context(), d)
			defer cancel()
			dc.SetContext(ctx)

			done := make(chan error, 1)
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				done <- next(dc)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case err := <-done:
				adopt()
				if werr := tw.copyTo(c.Response()); werr != nil && err == nil {
					err = werr
				}
				return err
			case <-ctx.Done():
				tw.expire()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", d.String())
					return &TimeoutError{Duration: d}
				}
				return ctx.Err()
			}
		}
	}
}

// timeoutWriter holds a handler's response until it is known to have
// finished in time.
type timeoutWriter struct {
	header http.Header
	buf    bytes.Buffer

	mu          sync.Mutex
	code        int
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.header }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.code = code
	tw.wroteHeader = true
}

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.code = http.StatusOK
		tw.wroteHeader = true
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) expire() {
	tw.mu.Lock()
	tw.timedOut = true
	tw.mu.Unlock()
}

// copyTo sends the buffered response to w. A handler that wrote nothing
// leaves w untouched so the error handler can still answer.
func (tw *timeoutWriter) copyTo(w http.ResponseWriter) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	dst := w.Header()
	for k, vv := range tw.header {
		if k == "Set-Cookie" {
			dst[k] = append(dst[k], vv...)
			continue
		}
		dst[k] = vv
	}
	if !tw.wroteHeader {
		return nil
	}
	w.WriteHeader(tw.code)
	_, err := w.Write(tw.buf.Bytes())
	return err
}
