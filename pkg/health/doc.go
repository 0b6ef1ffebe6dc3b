// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//		"jobs":     job.Healthcheck(manager),
//	}, health.WithLogger(log)))
//
// Checks run in parallel under a shared timeout. Responses are plain text
// ("OK" or "Service Unavailable") unless the client asks for JSON with
// ?format=json or an Accept header, in which case each check's status and
// error are reported.
package health
