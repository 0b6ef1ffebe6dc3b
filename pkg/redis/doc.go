// Package redis opens go-redis clients with pooling defaults, startup retries,
// a readiness check and a shutdown hook.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	app := locallibrary.New(
//		locallibrary.WithHealthChecks(locallibrary.WithReadinessCheck("redis", redis.Healthcheck(client))),
//		locallibrary.WithShutdownHook(redis.Shutdown(client)),
//	)
//
// Errors are sentinels joined with the underlying cause via errors.Join.
package redis
