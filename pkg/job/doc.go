// Package job runs background tasks on River (Postgres-backed queue).
//
// Tasks are plain structs registered by structural typing. One-off tasks
// implement Name and Handle(ctx, payload); periodic tasks implement Name,
// Schedule (5-field cron) and Handle(ctx):
//
//	m, err := job.NewManager(pool,
//		job.WithLogger(log),
//		job.WithTask[tasks.OverdueNotice](tasks.NewSendOverdueNotice(repo, mail)),
//		job.WithScheduledTask(tasks.NewScanOverdueLoans(repo, m)),
//	)
//
// Migrate creates River's tables and must run before the manager starts.
//
// Every task shares one River job kind; the task name and JSON payload
// travel in the job arguments and are dispatched through a registry.
// Enqueue options map onto River insert options, UniqueFor together with
// UniqueKey deduplicates jobs per key for the given period.
package job
