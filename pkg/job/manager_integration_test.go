//go:build integration

package job

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerUniqueEnqueue(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool, nil))
	require.NoError(t, Migrate(ctx, pool, nil), "second run is a no-op")

	m, err := NewManager(pool, WithTask[notice](&noticeTask{}))
	require.NoError(t, err)

	key := "copy-" + time.Now().Format(time.RFC3339Nano)
	for range 2 {
		require.NoError(t, m.Enqueue(ctx, "send_notice", notice{CopyID: key},
			UniqueFor(24*time.Hour), UniqueKey(key)))
	}

	var n int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM river_job WHERE args->>'unique_key' = $1`, key).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = m.Enqueue(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTask)
}
