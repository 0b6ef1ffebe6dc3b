// Package mailer renders markdown e-mail templates and hands the result to
// a Sender.
//
// Templates are markdown files with optional YAML frontmatter. The body is a
// text/template executed with the caller's data, converted to HTML with
// goldmark and wrapped in an html/template layout:
//
//	---
//	Subject: "Overdue: {{.Title}}"
//	---
//	Hello {{.Name}},
//
//	[!button|My borrowed books]({{.URL}})
//
// The [!button|Label](url) syntax renders as <a class="btn">. Subject comes
// from SendParams, then frontmatter, then Config.FallbackSubject, and is
// itself executed as a template.
//
// Senders: resend.Sender delivers through the Resend API, LogSender writes
// the message to a slog logger for development.
package mailer
