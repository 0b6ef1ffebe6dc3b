package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

// Migrate applies River's queue schema. It must run before NewManager's
// client touches the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	if pool == nil {
		return ErrPoolRequired
	}
	if log == nil {
		log = logger.NewNope()
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("migrate river schema: %w", err)
	}
	for _, v := range res.Versions {
		log.InfoContext(ctx, "river migration applied", slog.Int("version", v.Version), slog.String("name", v.Name))
	}
	return nil
}
