package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// Mailer renders templates and sends them through a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, config: cfg}
}

// BaseURL is the absolute site URL used to build links in messages.
func (m *Mailer) BaseURL() string { return m.config.BaseURL }

// SendParams describes one templated message.
type SendParams struct {
	Data        any
	To          string
	Template    string
	Subject     string // overrides frontmatter
	Layout      string // overrides Config.DefaultLayout
	From        string
	ReplyTo     string
	Tags        Tags
	CC          []string
	BCC         []string
	Attachments []Attachment
}

func (m *Mailer) Send(ctx context.Context, p SendParams) error {
	if p.To == "" {
		return ErrNoRecipient
	}

	layout := p.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}
	res, err := m.renderer.Render(layout, p.Template, p.Data)
	if err != nil {
		return err
	}

	subject := p.Subject
	if subject == "" {
		if s, ok := res.Metadata["Subject"].(string); ok && s != "" {
			subject = s
		} else {
			subject = m.config.FallbackSubject
		}
	}
	subject, err = executeSubject(subject, p.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:          []string{p.To},
		Subject:     subject,
		HTML:        res.HTML,
		Text:        res.Text,
		From:        p.From,
		ReplyTo:     p.ReplyTo,
		Tags:        p.Tags,
		CC:          p.CC,
		BCC:         p.BCC,
		Attachments: p.Attachments,
	})
}

// SendRaw sends an already built message.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	switch {
	case len(email.To) == 0:
		return ErrNoRecipient
	case email.Subject == "":
		return ErrNoSubject
	case email.HTML == "":
		return ErrNoContent
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
