package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found at the root of
// migrations. The database/sql handle shares the pool's connections and is
// intentionally left open.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	if table != "" {
		goose.SetTableName(table)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...), slog.String("component", "goose"))
}

// Fatalf only logs; goose returns the error to Migrate afterwards.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...), slog.String("component", "goose"))
}
