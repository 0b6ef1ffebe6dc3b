package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the dialect
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/pkg/cache"
	"github.com/dmitrymomot/locallibrary/pkg/db"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

var pg = goqu.Dialect("postgres")

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	db.Querier
	db.TxBeginner
}

// sqlizer is any goqu dataset.
type sqlizer interface {
	ToSQL() (string, []any, error)
}

type Store struct {
	db         DB
	logger     *slog.Logger
	genres     cache.Cache[[]catalog.Genre]
	languages  cache.Cache[[]catalog.Language]
	choicesTTL time.Duration
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChoiceCache caches the genre and language lists used by forms.
func WithChoiceCache(genres cache.Cache[[]catalog.Genre], languages cache.Cache[[]catalog.Language], ttl time.Duration) Option {
	return func(s *Store) {
		s.genres = genres
		s.languages = languages
		s.choicesTTL = ttl
	}
}

func New(conn DB, opts ...Option) *Store {
	s := &Store{db: conn, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InTx runs fn with a Store bound to a transaction. Nested calls use
// savepoints.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		scoped := *s
		scoped.db = tx
		return fn(&scoped)
	})
}

func (s *Store) build(ctx context.Context, q sqlizer) (string, []any, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildQuery, err)
	}
	s.logger.DebugContext(ctx, "sql", slog.String("query", sql), slog.Int("args", len(args)))
	return sql, args, nil
}

func (s *Store) query(ctx context.Context, q sqlizer) (pgx.Rows, error) {
	sql, args, err := s.build(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryFailed(err)
	}
	return rows, nil
}

// queryRow scans a single row into dest, mapping no rows to
// catalog.ErrNotFound.
func (s *Store) queryRow(ctx context.Context, q sqlizer, dest ...any) error {
	sql, args, err := s.build(ctx, q)
	if err != nil {
		return err
	}
	if err := s.db.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrNotFound
		}
		return queryFailed(err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, q sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := s.build(ctx, q)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return tag, queryFailed(err)
	}
	return tag, nil
}

// execOne is exec for statements that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, q sqlizer) error {
	tag, err := s.exec(ctx, q)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, q *goqu.SelectDataset) (int, error) {
	var n int
	if err := s.queryRow(ctx, q.Select(goqu.COUNT(goqu.Star())).Prepared(true), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// collect scans every row with fn and closes rows.
func collect[T any](rows pgx.Rows, fn func(row pgx.CollectableRow) (T, error)) ([]T, error) {
	items, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, errors.Join(ErrScan, err)
	}
	return items, nil
}
