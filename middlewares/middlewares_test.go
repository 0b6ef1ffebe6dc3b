package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/middlewares"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func errorHandler(c internal.Context, err error) error {
	if pe, ok := middlewares.AsPanicError(err); ok {
		return c.String(http.StatusInternalServerError, "panic: "+pe.Value.(string))
	}
	if _, ok := middlewares.AsTimeoutError(err); ok {
		return c.String(http.StatusServiceUnavailable, "timeout")
	}
	if he, ok := internal.AsHTTPError(err); ok {
		return c.String(he.Code, he.Message)
	}
	return c.String(http.StatusInternalServerError, err.Error())
}

func newApp(opts ...internal.Option) *internal.App {
	return internal.New(append([]internal.Option{internal.WithErrorHandler(errorHandler)}, opts...)...)
}

func do(app *internal.App, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	app := newApp(
		internal.WithMiddleware(middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "generated" }),
		)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				seen = middlewares.GetRequestID(c)
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	rec := do(app, http.MethodGet, "/")
	assert.Equal(t, "generated", seen)
	assert.Equal(t, "generated", rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-1", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	app.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "generated", seen)
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf},
		middlewares.RequestIDExtractor(), middlewares.UserIDExtractor())

	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	app := newApp(
		internal.WithLogger(log),
		internal.WithSession(store),
		internal.WithMiddleware(middlewares.RequestID(), middlewares.UserID()),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.POST("/login", func(c internal.Context) error {
				if err := c.AuthenticateSession("user-42"); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			})
			r.GET("/", func(c internal.Context) error {
				c.LogInfo("hello")
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	rec := do(app, http.MethodPost, "/login")
	require.Equal(t, http.StatusNoContent, rec.Code)
	sid := sessionCookie(t, rec)

	buf.Reset()
	do(app, http.MethodGet, "/", sid)

	var hello map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		if line["msg"] == "hello" {
			hello = line
		}
	}
	require.NotNil(t, hello)
	assert.Equal(t, "user-42", hello["user_id"])
	assert.NotEmpty(t, hello["request_id"])
}

func TestRecover(t *testing.T) {
	t.Parallel()

	app := newApp(
		internal.WithMiddleware(middlewares.Recover(middlewares.WithoutRecoverStack())),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(internal.Context) error { panic("shelf collapsed") })
			r.GET("/abort", func(internal.Context) error { panic(http.ErrAbortHandler) })
		})),
	)

	rec := do(app, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "panic: shelf collapsed", rec.Body.String())

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { do(app, http.MethodGet, "/abort") })
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	app := newApp(
		internal.WithMiddleware(middlewares.Timeout(20*time.Millisecond)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/slow", func(c internal.Context) error {
				<-release
				return nil
			})
			r.GET("/fast", func(c internal.Context) error {
				_, ok := c.Deadline()
				assert.True(t, ok)
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	assert.Equal(t, http.StatusServiceUnavailable, do(app, http.MethodGet, "/slow").Code)
	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/fast").Code)
}

func TestTimeoutDropsLateWrites(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	lateErr := make(chan error, 1)

	app := newApp(
		internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/slow", func(c internal.Context) error {
				<-release
				err := c.String(http.StatusOK, "late body")
				lateErr <- err
				return err
			})
		})),
	)

	rec := do(app, http.MethodGet, "/slow")
	close(release)

	select {
	case err := <-lateErr:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler did not finish")
	}
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "timeout", rec.Body.String())
}

func TestTimeoutCopiesResponse(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	app := newApp(
		internal.WithSession(store),
		internal.WithMiddleware(middlewares.Timeout(time.Second)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.POST("/visit", func(c internal.Context) error {
				if err := c.SetSessionValue("visits", 1); err != nil {
					return err
				}
				c.SetHeader("X-Shelf", "b")
				return c.String(http.StatusCreated, "counted")
			})
			r.GET("/visits", func(c internal.Context) error {
				v, err := c.SessionValue("visits")
				if err != nil {
					return err
				}
				return c.JSON(http.StatusOK, v)
			})
		})),
	)

	rec := do(app, http.MethodPost, "/visit")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "counted", rec.Body.String())
	assert.Equal(t, "b", rec.Header().Get("X-Shelf"))

	rec = do(app, http.MethodGet, "/visits", sessionCookie(t, rec))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "1", rec.Body.String())
}

func TestTimeoutHandsPanicsToRecover(t *testing.T) {
	t.Parallel()

	app := newApp(
		internal.WithMiddleware(middlewares.Recover(), middlewares.Timeout(time.Second)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/boom", func(internal.Context) error { panic("shelf collapsed") })
		})),
	)

	rec := do(app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "panic: shelf collapsed", rec.Body.String())
}

func TestGuards(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	ok := func(c internal.Context) error { return c.String(http.StatusOK, "ok") }
	app := newApp(
		internal.WithSession(store),
		internal.WithRoles(
			internal.RolePermissions{"librarian": {"catalog.can_mark_returned"}},
			func(c internal.Context) string {
				v, _ := c.SessionValue("role")
				s, _ := v.(string)
				return s
			},
		),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.POST("/login/{role}", func(c internal.Context) error {
				if err := c.AuthenticateSession("u-" + c.Param("role")); err != nil {
					return err
				}
				if err := c.SetSessionValue("role", c.Param("role")); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			})
			r.GET("/catalog/mybooks/", ok, middlewares.RequireAuth())
			r.GET("/catalog/borrowed/", ok, middlewares.RequirePermission("catalog.can_mark_returned"))
		})),
	)

	login := func(role string) *http.Cookie {
		rec := do(app, http.MethodPost, "/login/"+role)
		require.Equal(t, http.StatusNoContent, rec.Code)
		return sessionCookie(t, rec)
	}

	rec := do(app, http.MethodGet, "/catalog/mybooks/?page=2")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/accounts/login/?next=%2Fcatalog%2Fmybooks%2F%3Fpage%3D2", rec.Header().Get("Location"))

	rec = do(app, http.MethodGet, "/catalog/borrowed/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	member := login("member")
	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/catalog/mybooks/", member).Code)
	assert.Equal(t, http.StatusForbidden, do(app, http.MethodGet, "/catalog/borrowed/", member).Code)

	librarian := login("librarian")
	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/catalog/borrowed/", librarian).Code)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	l := middlewares.NewLimiter(5, time.Minute)
	t.Cleanup(func() { _ = l.Close() })

	app := newApp(internal.WithHandlers(routes(func(r internal.Router) {
		r.POST("/accounts/login/", func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RateLimit(l))
	})))

	from := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/accounts/login/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		return rec
	}

	for range 5 {
		require.Equal(t, http.StatusNoContent, from("10.0.0.1").Code)
	}
	rec := from("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, from("10.0.0.2").Code)
}

func TestLimiterRefill(t *testing.T) {
	t.Parallel()

	l := middlewares.NewLimiter(2, time.Minute)
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()
	now := time.Now()

	ok, _ := l.Reserve(ctx, "ip", now)
	assert.True(t, ok)
	ok, _ = l.Reserve(ctx, "ip", now)
	assert.True(t, ok)
	ok, wait := l.Reserve(ctx, "ip", now)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, wait)

	ok, _ = l.Reserve(ctx, "ip", now.Add(30*time.Second))
	assert.True(t, ok)
}

func TestLoginRedirect(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/catalog/copies/abc/renew", nil)
	assert.Equal(t, "/login?next=%2Fcatalog%2Fcopies%2Fabc%2Frenew",
		middlewares.LoginRedirect("/login", req))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sessionid" {
			found = ck
		}
	}
	require.NotNil(t, found, "no session cookie")
	return found
}
