package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

const (
	defaultMaxWorkers = 100
	defaultQueue      = river.QueueDefault
)

// Manager enqueues and processes tasks. Jobs may be enqueued before Start;
// they run once the manager is started.
type Manager struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	registry *taskRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewNope()
	}
	if cfg.maxWorkers == 0 {
		cfg.maxWorkers = defaultMaxWorkers
	}

	queues := map[string]river.QueueConfig{
		defaultQueue: {MaxWorkers: cfg.maxWorkers},
	}
	for name, workers := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: workers}
	}

	periodic, err := periodicJobs(cfg.schedules)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:     pool,
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

func periodicJobs(schedules []schedule) ([]*river.PeriodicJob, error) {
	jobs := make([]*river.PeriodicJob, 0, len(schedules))
	for _, s := range schedules {
		sched, err := parseCronSchedule(s.cron)
		if err != nil {
			return nil, fmt.Errorf("job: invalid cron schedule %q for %s: %w", s.cron, s.name, err)
		}
		name := s.name
		jobs = append(jobs, river.NewPeriodicJob(
			sched,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{TaskName: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}
	return jobs, nil
}

// Start begins processing jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := m.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	res, err := m.client.Insert(ctx, args, insertOpts)
	if err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	m.logInserted(ctx, name, res)
	return nil
}

// EnqueueTx inserts a job inside tx. The job becomes visible on commit.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := m.prepare(name, payload, opts...)
	if err != nil {
		return err
	}
	res, err := m.client.InsertTx(ctx, tx, args, insertOpts)
	if err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	m.logInserted(ctx, name, res)
	return nil
}

func (m *Manager) prepare(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	if _, ok := m.registry.get(name); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return buildJobArgs(name, payload, opts...)
}

func (m *Manager) logInserted(ctx context.Context, name string, res *rivertype.JobInsertResult) {
	if res == nil || res.Job == nil {
		return
	}
	if res.UniqueSkippedAsDuplicate {
		m.logger.DebugContext(ctx, "job skipped as duplicate",
			slog.String("task", name),
			slog.Int64("job_id", res.Job.ID),
		)
		return
	}
	m.logger.DebugContext(ctx, "job enqueued",
		slog.String("task", name),
		slog.Int64("job_id", res.Job.ID),
	)
}

// StartFunc adapts Start to an application startup hook.
func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

// Shutdown adapts Stop to an application shutdown hook.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// taskWorker dispatches every job through the registry.
type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *taskRegistry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	return w.run(ctx, job.ID, job.Attempt, job.Args)
}

func (w *taskWorker) run(ctx context.Context, id int64, attempt int, args taskArgs) error {
	exec, ok := w.registry.get(args.TaskName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, args.TaskName)
	}

	attrs := []any{
		slog.String("task", args.TaskName),
		slog.Int64("job_id", id),
		slog.Int("attempt", attempt),
	}
	w.logger.DebugContext(ctx, "executing task", attrs...)

	if err := exec.Execute(ctx, args.Payload); err != nil {
		w.logger.ErrorContext(ctx, "task failed", append(attrs, slog.Any("error", err))...)
		return err
	}

	w.logger.DebugContext(ctx, "task completed", attrs...)
	return nil
}

type cronSchedule struct {
	schedule cron.Schedule
}

func (s *cronSchedule) Next(current time.Time) time.Time {
	return s.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronSchedule{schedule: schedule}, nil
}
