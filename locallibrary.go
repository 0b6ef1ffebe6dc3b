package locallibrary

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/handlers"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/middlewares"
	"github.com/dmitrymomot/locallibrary/pkg/cookie"
	"github.com/dmitrymomot/locallibrary/pkg/health"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

// Type aliases re-exported for cmd and tests.
type (
	RunOption        = internal.RunOption
	ContextExtractor = logger.ContextExtractor
)

var (
	Logger          = internal.Logger
	ShutdownTimeout = internal.ShutdownTimeout
	StartupHook     = internal.StartupHook
	ShutdownHook    = internal.ShutdownHook
	WithContext     = internal.WithContext
	WithListener    = internal.WithListener
)

// Store is everything the web handlers read and write.
// repository.Store implements it.
type Store interface {
	handlers.CatalogStore
	handlers.RecordStore
	handlers.LoanStore
}

// Config holds the HTTP-level settings read from the environment.
type Config struct {
	// At least 32 bytes; encrypts flash cookies.
	CookieSecret string `env:"COOKIE_SECRET,required,notEmpty"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"336h"`

	// Zero disables throttling of sign-in attempts.
	LoginAttemptsPerMinute int `env:"LOGIN_ATTEMPTS_PER_MINUTE" envDefault:"5"`
}

// Deps are the collaborators New wires into the router.
type Deps struct {
	Store    Store
	Auth     handlers.Authenticator
	Sessions session.Store
	Logger   *slog.Logger

	// Optional; c.Enqueue is unavailable without it.
	Jobs *job.Manager

	// Readiness checks keyed by name, e.g. "postgres".
	Checks map[string]health.CheckFunc

	// Defaults to time.Now.
	Now func() time.Time
}

// App is the configured library site.
type App struct {
	*internal.App
	limiter *middlewares.Limiter
}

// New assembles routes, middleware and error pages.
func New(cfg Config, deps Deps) *App {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	var limiter *middlewares.Limiter
	if cfg.LoginAttemptsPerMinute > 0 {
		limiter = middlewares.NewLimiter(cfg.LoginAttemptsPerMinute, time.Minute)
	}

	healthOpts := make([]internal.HealthOption, 0, len(deps.Checks))
	for name, fn := range deps.Checks {
		healthOpts = append(healthOpts, internal.WithReadinessCheck(name, fn))
	}

	mw := []internal.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.UserID(),
	}
	if cfg.RequestTimeout > 0 {
		mw = append(mw, middlewares.Timeout(cfg.RequestTimeout))
	}

	opts := []internal.Option{
		internal.WithLogger(deps.Logger),
		internal.WithCookieOptions(
			cookie.WithSecret(cfg.CookieSecret),
			cookie.WithSecure(cfg.CookieSecure),
		),
		internal.WithSession(deps.Sessions,
			internal.WithSessionMaxAge(cfg.SessionTTL),
			internal.WithSessionSecure(cfg.CookieSecure),
		),
		internal.WithRoles(accounts.RolePermissions(), accounts.RoleFromSession),
		internal.WithMiddleware(mw...),
		internal.WithErrorHandler(handlers.ErrorHandler()),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithStaticFiles("/static/", views.Static, "static"),
		internal.WithHealthChecks(healthOpts...),
		internal.WithHandlers(
			handlers.NewCatalog(deps.Store, handlers.WithCatalogClock(now)),
			handlers.NewRecords(deps.Store),
			handlers.NewLoans(deps.Store, handlers.WithLoansClock(now)),
			handlers.NewAccounts(deps.Auth, limiter),
		),
	}
	if deps.Jobs != nil {
		opts = append(opts, internal.WithJobs(deps.Jobs))
	}

	return &App{App: internal.New(opts...), limiter: limiter}
}

// Close releases the sign-in limiter.
func (a *App) Close() error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Close()
}
