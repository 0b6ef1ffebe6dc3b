package tasks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/pkg/job"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
	"github.com/dmitrymomot/locallibrary/pkg/mailer"
)

const (
	ScanOverdueLoansName  = "scan_overdue_loans"
	SendOverdueNoticeName = "send_overdue_notice"

	// ScanOverdueLoansSchedule is every day at 08:00.
	ScanOverdueLoansSchedule = "0 8 * * *"

	// NoticeInterval is how long a copy's notice stays unique.
	NoticeInterval = 24 * time.Hour

	overdueTemplate = "overdue_notice.md"
)

// Enqueuer schedules tasks; *job.Manager implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// OverdueStore lists overdue loans; repository.Store implements it.
type OverdueStore interface {
	ListOverdue(ctx context.Context, today time.Time) ([]catalog.BookInstance, error)
	GetInstance(ctx context.Context, id string) (catalog.BookInstance, error)
}

// OverdueNotice is the payload of SendOverdueNotice.
type OverdueNotice struct {
	CopyID string `json:"copy_id"`
}

// ScanOverdueLoans finds overdue copies and queues a notice for each.
type ScanOverdueLoans struct {
	store  OverdueStore
	jobs   Enqueuer
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewScanOverdueLoans(store OverdueStore, jobs Enqueuer, opts ...Option) *ScanOverdueLoans {
	o := buildOptions(opts)
	return &ScanOverdueLoans{store: store, jobs: jobs, now: o.now, logger: o.logger}
}

func (t *ScanOverdueLoans) Name() string     { return ScanOverdueLoansName }
func (t *ScanOverdueLoans) Schedule() string { return ScanOverdueLoansSchedule }

func (t *ScanOverdueLoans) Handle(ctx context.Context) error {
	overdue, err := t.store.ListOverdue(ctx, catalog.Today(t.now()))
	if err != nil {
		return err
	}
	var errs []error
	for _, bi := range overdue {
		err := t.jobs.Enqueue(ctx, SendOverdueNoticeName, OverdueNotice{CopyID: bi.ID},
			job.UniqueFor(NoticeInterval),
			job.UniqueKey(bi.ID),
			job.MaxAttempts(5),
		)
		if err != nil {
			errs = append(errs, err)
		}
	}
	t.logger.InfoContext(ctx, "overdue loans scanned",
		slog.Int("overdue", len(overdue)),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

// SendOverdueNotice mails the borrower of one overdue copy.
type SendOverdueNotice struct {
	store  OverdueStore
	mailer *mailer.Mailer
	now    func() time.Time
	logger *slog.Logger
}

func NewSendOverdueNotice(store OverdueStore, m *mailer.Mailer, opts ...Option) *SendOverdueNotice {
	o := buildOptions(opts)
	return &SendOverdueNotice{store: store, mailer: m, now: o.now, logger: o.logger}
}

func (t *SendOverdueNotice) Name() string { return SendOverdueNoticeName }

// Handle skips copies that were returned, renewed or deleted since the
// scan queued them.
func (t *SendOverdueNotice) Handle(ctx context.Context, p OverdueNotice) error {
	bi, err := t.store.GetInstance(ctx, p.CopyID)
	if errors.Is(err, catalog.ErrNotFound) {
		t.logger.InfoContext(ctx, "overdue notice skipped", slog.String("copy_id", p.CopyID), slog.String("reason", "copy deleted"))
		return nil
	}
	if err != nil {
		return err
	}

	today := catalog.Today(t.now())
	switch {
	case bi.Status != catalog.StatusOnLoan || !bi.IsOverdue(today):
		t.logger.InfoContext(ctx, "overdue notice skipped", slog.String("copy_id", p.CopyID), slog.String("reason", "no longer overdue"))
		return nil
	case bi.Borrower == nil || bi.Borrower.Email == "":
		t.logger.InfoContext(ctx, "overdue notice skipped", slog.String("copy_id", p.CopyID), slog.String("reason", "no borrower e-mail"))
		return nil
	}

	days := int(today.Sub(catalog.Day(*bi.DueBack)).Hours() / 24)
	err = t.mailer.Send(ctx, mailer.SendParams{
		To:       mailer.Recipient(bi.Borrower.DisplayName(), bi.Borrower.Email),
		Template: overdueTemplate,
		Data: map[string]any{
			"Name":        bi.Borrower.DisplayName(),
			"Title":       bi.BookTitle,
			"DueBack":     catalog.FormatDate(*bi.DueBack),
			"DaysOverdue": days,
			"URL":         strings.TrimSuffix(t.mailer.BaseURL(), "/") + "/catalog/mybooks/",
		},
		Tags: mailer.Tags{"category": "overdue_notice"},
	})
	if err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "overdue notice sent", slog.String("copy_id", p.CopyID), slog.Int("days_overdue", days))
	return nil
}
