package mailer

import "fmt"

// Tags are provider labels. Presence-only tags use struct{}{} values.
type Tags map[string]any

func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats an RFC 5322 address.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a message ready for delivery.
type Email struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	HTML        string
	Text        string
	From        string
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}
