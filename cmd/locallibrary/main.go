package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/locallibrary"
	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/db/migrations"
	"github.com/dmitrymomot/locallibrary/internal/repository"
	"github.com/dmitrymomot/locallibrary/internal/tasks"
	"github.com/dmitrymomot/locallibrary/middlewares"
	"github.com/dmitrymomot/locallibrary/pkg/cache"
	"github.com/dmitrymomot/locallibrary/pkg/db"
	"github.com/dmitrymomot/locallibrary/pkg/health"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/mailer"
	"github.com/dmitrymomot/locallibrary/pkg/mailer/resend"
	"github.com/dmitrymomot/locallibrary/pkg/redis"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

func main() {
	seedFile := flag.String("seed", "", "load fixtures from a YAML file after migrating")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	if err := run(*seedFile, *migrateOnly); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(seedFile string, migrateOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry,
		middlewares.RequestIDExtractor(),
		middlewares.UserIDExtractor(),
	)
	defer func() { _ = logger.FlushSentry(2 * time.Second)(context.Background()) }()

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}
	if err := job.Migrate(ctx, pool, log); err != nil {
		return err
	}

	genres := cache.NewMemory[[]catalog.Genre](cache.WithMaxEntries(8))
	languages := cache.NewMemory[[]catalog.Language](cache.WithMaxEntries(8))
	defer func() {
		_ = genres.Close()
		_ = languages.Close()
	}()
	store := repository.New(pool,
		repository.WithLogger(log),
		repository.WithChoiceCache(genres, languages, cfg.ChoicesTTL),
	)
	auth := accounts.NewService(store, accounts.WithLogger(log))

	if seedFile != "" {
		if err := seed(ctx, store, seedFile, auth.HashPassword); err != nil {
			return err
		}
		log.Info("fixtures loaded", slog.String("file", seedFile))
	}
	if migrateOnly {
		return nil
	}

	checks := map[string]health.CheckFunc{"postgres": db.Healthcheck(pool)}
	var shutdown []func(context.Context) error

	var rdb goredis.UniversalClient
	if cfg.Redis.Enabled() {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		checks["redis"] = redis.Healthcheck(rdb)
		shutdown = append(shutdown, redis.Shutdown(rdb))
	}

	sessions := sessionStore(rdb)
	defer func() { _ = sessions.Close() }()

	jobs, err := newJobs(pool, store, cfg, log)
	if err != nil {
		return err
	}
	checks["jobs"] = job.Healthcheck(jobs)

	app := locallibrary.New(cfg.App, locallibrary.Deps{
		Store:    store,
		Auth:     auth,
		Sessions: sessions,
		Jobs:     jobs,
		Logger:   log,
		Checks:   checks,
	})
	defer func() { _ = app.Close() }()

	opts := []locallibrary.RunOption{
		locallibrary.Logger(log),
		locallibrary.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	for _, fn := range append(shutdown, db.Shutdown(pool)) {
		opts = append(opts, locallibrary.ShutdownHook(fn))
	}
	return app.Run(cfg.Addr, opts...)
}

// sessionStore keeps sessions in Redis when it is configured so they
// survive restarts; otherwise in process memory.
func sessionStore(rdb goredis.UniversalClient) *session.CacheStore {
	if rdb == nil {
		return session.NewMemoryStore()
	}
	return session.NewCacheStore(
		cache.NewRedis[session.Session](rdb, cache.JSONMarshaler[session.Session]{}, cache.WithPrefix("session")),
		cache.NewRedis[string](rdb, cache.JSONMarshaler[string]{}, cache.WithPrefix("session_token")),
		cache.NewRedis[[]string](rdb, cache.JSONMarshaler[[]string]{}, cache.WithPrefix("session_user")),
	)
}

// lateEnqueuer lets tasks registered on a manager enqueue through it.
type lateEnqueuer struct{ m *job.Manager }

func (e *lateEnqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error {
	return e.m.Enqueue(ctx, name, payload, opts...)
}

func newJobs(pool *pgxpool.Pool, store *repository.Store, cfg Config, log *slog.Logger) (*job.Manager, error) {
	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.Resend.Enabled() {
		sender = resend.New(cfg.Resend)
	}
	m := mailer.New(sender, tasks.NewRenderer(), cfg.Mailer)

	enq := &lateEnqueuer{}
	jobs, err := job.NewManager(pool,
		job.WithLogger(log),
		job.WithMaxWorkers(cfg.JobWorkers),
		job.WithScheduledTask(tasks.NewScanOverdueLoans(store, enq, tasks.WithLogger(log))),
		job.WithTask[tasks.OverdueNotice](tasks.NewSendOverdueNotice(store, m, tasks.WithLogger(log))),
	)
	if err != nil {
		return nil, err
	}
	enq.m = jobs
	return jobs, nil
}

// seed loads fixtures in one transaction.
func seed(ctx context.Context, store *repository.Store, path string, hash func(string) (string, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer f.Close()

	fx, err := parseFixtures(f)
	if err != nil {
		return err
	}
	return store.InTx(ctx, func(tx *repository.Store) error {
		return fx.load(ctx, tx, hash)
	})
}
