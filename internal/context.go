package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/dmitrymomot/locallibrary/pkg/binder"
	"github.com/dmitrymomot/locallibrary/pkg/cookie"
	"github.com/dmitrymomot/locallibrary/pkg/htmx"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/sanitizer"
	"github.com/dmitrymomot/locallibrary/pkg/session"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

// ValidationErrors is a list of field errors from Bind.
type ValidationErrors = validator.ValidationErrors

// Permission is a named capability checked with Context.Can.
type Permission string

// RolePermissions maps role names to granted permissions.
type RolePermissions = map[string][]Permission

// RoleExtractorFunc resolves the current user's role.
type RoleExtractorFunc = func(Context) string

// Component is anything renderable; templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Context is the per-request handle passed to handlers and middleware.
// It is also a context.Context backed by the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	Context() context.Context

	// Param returns a chi URL parameter.
	Param(name string) string
	Query(name string) string
	QueryDefault(name, defaultValue string) string
	Form(name string) string
	Header(name string) string
	SetHeader(name, value string)

	// UserID returns the authenticated user's ID, or "" for anonymous requests.
	UserID() string
	IsAuthenticated() bool
	IsCurrentUser(id string) bool

	// Can reports whether the current role grants permission.
	Can(permission Permission) bool

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error

	// Redirect works for both full page and HTMX requests.
	Redirect(code int, url string) error

	// Error builds an HTTPError for the handler to return.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	IsHTMX() bool
	Render(code int, component Component, opts ...htmx.RenderOption) error
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error

	// Bind decodes the form body into v, sanitizes and validates it.
	// Field problems come back as ValidationErrors, other failures as error.
	Bind(v any) (ValidationErrors, error)
	BindQuery(v any) (ValidationErrors, error)

	Written() bool
	ResponseWriter() *ResponseWriter

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Set stores a request-scoped value readable with Get.
	Set(key any, value any)
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error
	CookieEncrypted(name string) (string, error)
	SetCookieEncrypted(name, value string, maxAge int) error

	// Flash reads a one-shot message into dest and clears it.
	Flash(key string, dest any) error
	SetFlash(key string, value any) error

	// Session loads the current session. It returns nil, nil when the
	// request carries none.
	Session() (*session.Session, error)
	InitSession() error

	// AuthenticateSession binds userID to the session and rotates its token.
	AuthenticateSession(userID string) error
	SessionValue(key string) (any, error)
	SetSessionValue(key string, val any) error
	DeleteSessionValue(key string) error
	DestroySession() error

	// Enqueue schedules a background task.
	Enqueue(name string, payload any, opts ...job.EnqueueOption) error
	EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

// requestState is shared by every Context built for the same request, so a
// session loaded in middleware is reused by the handler.
type requestState struct {
	session        *session.Session
	role           *string
	sessionLoaded  bool
	hookRegistered bool
}

type stateKey struct{}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	app            *App
	state          *requestState
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	st, ok := r.Context().Value(stateKey{}).(*requestState)
	if !ok {
		st = &requestState{}
		r = r.WithContext(context.WithValue(r.Context(), stateKey{}, st))
	}
	return &requestContext{request: r, responseWriter: rw, app: app, state: st}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.responseWriter }
func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
func (c *requestContext) Context() context.Context { return c.request.Context() }

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Param(name string) string { return chi.URLParam(c.request, name) }
func (c *requestContext) Query(name string) string { return c.request.URL.Query().Get(name) }

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string   { return c.request.FormValue(name) }
func (c *requestContext) Header(name string) string { return c.request.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) UserID() string {
	sess, err := c.Session()
	if err != nil || sess == nil || sess.UserID == nil {
		return ""
	}
	return *sess.UserID
}

func (c *requestContext) IsAuthenticated() bool { return c.UserID() != "" }

func (c *requestContext) IsCurrentUser(id string) bool {
	uid := c.UserID()
	return uid != "" && uid == id
}

func (c *requestContext) Can(permission Permission) bool {
	if c.app.rolePermissions == nil || c.app.roleExtractor == nil {
		return false
	}
	if c.state.role == nil {
		// Guard against an extractor that calls Can.
		empty := ""
		c.state.role = &empty
		role := c.app.roleExtractor(c)
		c.state.role = &role
	}
	return slices.Contains(c.app.rolePermissions[*c.state.role], permission)
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return jsonAPI.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := io.WriteString(c.responseWriter, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.RedirectWithStatus(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) IsHTMX() bool { return htmx.IsHTMX(c.request) }

// Render writes component with code. HTMX requests always get 200 and the
// headers and out-of-band fragments from opts.
func (c *requestContext) Render(code int, component Component, opts ...htmx.RenderOption) error {
	c.SetHeader("Content-Type", "text/html; charset=utf-8")

	var cfg *htmx.Config
	if len(opts) > 0 && c.IsHTMX() {
		cfg = htmx.NewConfig(opts...)
		cfg.ApplyHeaders(c.responseWriter)
	}

	c.responseWriter.WriteHeader(code)
	if err := component.Render(c.request.Context(), c.responseWriter); err != nil {
		return err
	}

	if cfg != nil {
		for _, oob := range cfg.OOBComponents {
			if err := oob.Render(c.request.Context(), c.responseWriter); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error {
	if c.IsHTMX() {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *requestContext) Bind(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.Form(), v)
}

func (c *requestContext) BindQuery(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.Query(), v)
}

// bindAndValidate merges binder parse errors with validation errors so a
// form shows every problem at once.
func (c *requestContext) bindAndValidate(bind binder.Func, v any) (ValidationErrors, error) {
	var errs ValidationErrors
	if err := bind(c.request, v); err != nil {
		if !validator.IsValidationError(err) {
			return nil, fmt.Errorf("bind: %w", err)
		}
		errs = validator.ExtractValidationErrors(err)
	}
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	if err := validator.ValidateStruct(v); err != nil {
		if !validator.IsValidationError(err) {
			return nil, fmt.Errorf("validate: %w", err)
		}
		for _, fe := range validator.ExtractValidationErrors(err) {
			if !errs.Has(fe.Field) {
				errs.Add(fe.Field, fe.Message)
			}
		}
	}
	if errs.IsEmpty() {
		return nil, nil
	}
	return errs, nil
}

func (c *requestContext) Written() bool { return c.responseWriter.Written() }

func (c *requestContext) Logger() *slog.Logger { return c.app.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *requestContext) cookies() *cookie.Manager { return c.app.cookieManager }

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies().Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies().Set(c.responseWriter, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies().Delete(c.responseWriter, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies().GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies().SetSigned(c.responseWriter, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.cookies().GetEncrypted(c.request, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.cookies().SetEncrypted(c.responseWriter, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.cookies().Flash(c.responseWriter, c.request, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.cookies().SetFlash(c.responseWriter, key, value)
}

func (c *requestContext) Enqueue(name string, payload any, opts ...job.EnqueueOption) error {
	if c.app.jobs == nil {
		return job.ErrNotConfigured
	}
	return c.app.jobs.Enqueue(c.Context(), name, payload, opts...)
}

func (c *requestContext) EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error {
	if c.app.jobs == nil {
		return job.ErrNotConfigured
	}
	return c.app.jobs.EnqueueTx(c.Context(), tx, name, payload, opts...)
}

// Detach returns a Context for running a handler on another goroutine. It
// writes to w and works on a private copy of the request state, so c stays
// safe to use while the copy runs. Calling adopt once the copy has returned
// takes its session and role back into c.
func Detach(c Context, w http.ResponseWriter) (detached Context, adopt func()) {
	rc, ok := c.(*requestContext)
	if !ok {
		return c, func() {}
	}

	st := rc.state.snapshot()
	d := &requestContext{
		request:        rc.request.WithContext(context.WithValue(rc.request.Context(), stateKey{}, st)),
		responseWriter: NewResponseWriter(w, rc.responseWriter.isHTMX),
		app:            rc.app,
		state:          st,
	}
	return d, func() {
		hooked := rc.state.hookRegistered
		*rc.state = *st
		rc.state.hookRegistered = hooked
		if st.hookRegistered && rc.app.sessionManager != nil {
			rc.registerSessionHook()
		}
	}
}

// snapshot copies s deeply enough that the copy can change the session
// without touching the original.
func (s *requestState) snapshot() *requestState {
	cp := *s
	cp.hookRegistered = false
	if s.session != nil {
		cp.session = s.session.Clone()
	}
	if s.role != nil {
		role := *s.role
		cp.role = &role
	}
	return &cp
}
