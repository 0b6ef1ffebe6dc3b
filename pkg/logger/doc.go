// Package logger builds slog loggers that enrich every record with values
// pulled from the request context and optionally forward warnings and
// errors to Sentry.
//
//	log := logger.New(logger.Config{Level: "debug"},
//		middlewares.RequestIDExtractor(),
//		middlewares.UserIDExtractor(),
//	)
//	log.InfoContext(ctx, "book renewed", slog.String("copy_id", id))
//	// {"level":"INFO","msg":"book renewed","copy_id":"…","request_id":"…","user_id":"…"}
//
// NewWithSentry tees records to stdout and to sentry-go's slog handler:
// errors become Sentry issues, warnings and errors are stored as Sentry logs.
// Without a DSN it behaves exactly like New.
package logger
