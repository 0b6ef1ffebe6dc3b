package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/locallibrary/pkg/cookie"
	"github.com/dmitrymomot/locallibrary/pkg/health"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

// Option configures the App.
type Option func(*App)

// WithMiddleware adds global middleware, applied in order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles serves subDir of fsys under pattern. Directory listings
// are disabled.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(sub))
		a.staticRoutes = append(a.staticRoutes, staticRoute{
			pattern: pattern,
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/") {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Cache-Control", "public, max-age=3600")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				files.ServeHTTP(w, r)
			}),
		})
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts liveness and readiness probes.
//
//	internal.WithHealthChecks(
//		internal.WithReadinessCheck("db", db.Healthcheck(pool)),
//		internal.WithReadinessCheck("jobs", job.Healthcheck(jobs)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side sessions. Sessions load lazily and are
// saved before the response is written.
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithJobs enables c.Enqueue. Jobs are processed once the manager is
// started; Run starts and stops it with the server.
func WithJobs(m *job.Manager) Option {
	return func(a *App) {
		a.jobs = m
	}
}

// WithRoles enables c.Can. The extractor runs at most once per request.
//
//	internal.WithRoles(
//		internal.RolePermissions{"librarian": {"catalog.can_mark_returned"}},
//		func(c internal.Context) string {
//			role, _ := c.SessionValue("role")
//			s, _ := role.(string)
//			return s
//		},
//	)
func WithRoles(permissions RolePermissions, extractor RoleExtractorFunc) Option {
	return func(a *App) {
		a.rolePermissions = permissions
		a.roleExtractor = extractor
	}
}
