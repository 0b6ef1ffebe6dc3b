// Package tasks holds the background jobs run by the job manager.
//
// ScanOverdueLoans runs every morning and enqueues one SendOverdueNotice
// per overdue copy. Notices are unique per copy for a day, so a rerun of
// the scan does not mail a borrower twice.
package tasks
