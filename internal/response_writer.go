package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter records the status and size, runs hooks before the first
// byte goes out and downgrades non-200 statuses to 200 for HTMX requests so
// htmx still swaps the body.
type ResponseWriter struct {
	http.ResponseWriter
	beforeWrite []func()
	size        int64
	status      int
	mu          sync.Mutex
	written     bool
	isHTMX      bool
}

func NewResponseWriter(w http.ResponseWriter, isHTMX bool) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK, isHTMX: isHTMX}
}

// OnBeforeWrite registers fn to run once, before headers are sent.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beforeWrite = append(w.beforeWrite, fn)
}

// start sends the header once and reports whether this call did it.
func (w *ResponseWriter) start(code int) bool {
	w.mu.Lock()
	if w.written {
		w.mu.Unlock()
		return false
	}
	w.written = true
	w.status = code
	hooks := w.beforeWrite
	w.beforeWrite = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if w.isHTMX && code != http.StatusOK {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
	return true
}

func (w *ResponseWriter) WriteHeader(code int) {
	w.start(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.start(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
