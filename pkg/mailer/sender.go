package mailer

import (
	"context"
	"log/slog"
	"strings"
)

// Sender delivers a prepared Email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error { return f(ctx, email) }

// LogSender writes messages to a logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(l *slog.Logger) *LogSender {
	return &LogSender{logger: l}
}

func (s *LogSender) Send(ctx context.Context, email *Email) error {
	s.logger.InfoContext(ctx, "email not delivered, no provider configured",
		slog.String("to", strings.Join(email.To, ", ")),
		slog.String("subject", email.Subject),
		slog.String("text", email.Text),
	)
	return nil
}
