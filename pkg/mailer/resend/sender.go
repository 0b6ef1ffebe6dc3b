// Package resend delivers mailer messages through the Resend API.
package resend

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/locallibrary/pkg/mailer"
)

type Sender struct {
	client *resend.Client
	from   string
}

func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		from:   mailer.Recipient(cfg.SenderName, cfg.SenderEmail),
	}
}

func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	_, err := s.client.Emails.SendWithContext(ctx, s.request(email))
	if err != nil {
		return fmt.Errorf("resend: send email: %w", err)
	}
	return nil
}

func (s *Sender) request(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		from = s.from
	}
	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}
	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}
	req.Tags = tags(email.Tags)
	return req
}

func tags(t mailer.Tags) []resend.Tag {
	if len(t) == 0 {
		return nil
	}
	out := make([]resend.Tag, 0, len(t))
	for name, v := range t {
		out = append(out, resend.Tag{Name: name, Value: tagValue(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// tagValue renders presence-only tags as "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
