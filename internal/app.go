package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/locallibrary/pkg/cookie"
	"github.com/dmitrymomot/locallibrary/pkg/health"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

// Server defaults.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App wires routing, middleware, sessions and background jobs together.
// It is immutable after New.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	sessionManager          *SessionManager
	jobs                    *job.Manager
	rolePermissions         RolePermissions
	roleExtractor           RoleExtractorFunc
	middlewares             []Middleware
	handlers                []Handler
	staticRoutes            []staticRoute
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}
	a.setupRoutes()
	return a
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Jobs returns the job manager, or nil when background jobs are disabled.
func (a *App) Jobs() *job.Manager {
	return a.jobs
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	a.router.Use(middleware.RealIP)
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		opts := []health.Option{health.WithLogger(a.logger)}
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, opts...))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
		}
		return
	}
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}
