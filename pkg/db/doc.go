// Package db wraps pgxpool with startup retries, goose migrations, a
// transaction helper, a readiness probe and a shutdown hook.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Environment variables (see Config): DATABASE_URL (required),
// DATABASE_MAX_OPEN_CONNS, DATABASE_MIN_CONNS, DATABASE_HEALTHCHECK_PERIOD,
// DATABASE_MAX_CONN_IDLE_TIME, DATABASE_MAX_CONN_LIFETIME,
// DATABASE_RETRY_ATTEMPTS, DATABASE_RETRY_INTERVAL and
// DATABASE_MIGRATIONS_TABLE.
//
// Errors are sentinels joined with their cause via errors.Join.
package db
