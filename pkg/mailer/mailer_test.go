package mailer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/locallibrary/pkg/mailer"
)

var templates = fstest.MapFS{
	"layouts/base.html": {Data: []byte(`<html><body>{{.Content}}</body></html>`)},
	"overdue.md": {Data: []byte(`---
Subject: "Overdue: {{.Title}}"
---
Hello {{.Name}},

[!button|My books]({{.URL}})
`)},
	"plain.md":  {Data: []byte("No frontmatter for {{.Name}}")},
	"broken.md": {Data: []byte("---\nSubject: [\n---\nbody")},
}

type captured struct {
	emails []*mailer.Email
	err    error
}

func (c *captured) Send(_ context.Context, e *mailer.Email) error {
	c.emails = append(c.emails, e)
	return c.err
}

func newMailer(s mailer.Sender) *mailer.Mailer {
	return mailer.New(s, mailer.NewRenderer(templates), mailer.Config{
		FallbackSubject: "Local Library",
		DefaultLayout:   "base.html",
	})
}

func TestMailerSend(t *testing.T) {
	t.Parallel()

	data := map[string]string{"Name": "Ann", "Title": "Dune", "URL": "https://lib.test/catalog/mybooks/"}

	t.Run("subject from frontmatter", func(t *testing.T) {
		t.Parallel()
		s := &captured{}
		err := newMailer(s).Send(context.Background(), mailer.SendParams{
			To: "ann@example.com", Template: "overdue.md", Data: data,
		})
		require.NoError(t, err)
		require.Len(t, s.emails, 1)
		e := s.emails[0]
		assert.Equal(t, "Overdue: Dune", e.Subject)
		assert.Equal(t, []string{"ann@example.com"}, e.To)
		assert.Contains(t, e.HTML, "<html><body>")
		assert.Contains(t, e.HTML, `<a href="https://lib.test/catalog/mybooks/" class="btn">My books</a>`)
		assert.Contains(t, e.Text, "Hello Ann,")
	})

	t.Run("fallback and override subject", func(t *testing.T) {
		t.Parallel()
		s := &captured{}
		m := newMailer(s)
		require.NoError(t, m.Send(context.Background(), mailer.SendParams{To: "a@b.c", Template: "plain.md", Data: data}))
		require.NoError(t, m.Send(context.Background(), mailer.SendParams{To: "a@b.c", Template: "plain.md", Data: data, Subject: "Hi {{.Name}}"}))
		assert.Equal(t, "Local Library", s.emails[0].Subject)
		assert.Equal(t, "Hi Ann", s.emails[1].Subject)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		m := newMailer(&captured{})

		assert.ErrorIs(t, m.Send(ctx, mailer.SendParams{Template: "plain.md"}), mailer.ErrNoRecipient)
		assert.ErrorIs(t, m.Send(ctx, mailer.SendParams{To: "a@b.c", Template: "missing.md"}), mailer.ErrTemplateNotFound)
		assert.ErrorIs(t, m.Send(ctx, mailer.SendParams{To: "a@b.c", Template: "plain.md", Layout: "nope.html", Data: data}), mailer.ErrLayoutNotFound)
		assert.ErrorIs(t, m.Send(ctx, mailer.SendParams{To: "a@b.c", Template: "broken.md"}), mailer.ErrInvalidFrontmatter)

		failing := newMailer(&captured{err: errors.New("down")})
		err := failing.Send(ctx, mailer.SendParams{To: "a@b.c", Template: "plain.md", Data: data})
		assert.ErrorIs(t, err, mailer.ErrSendFailed)
	})
}

func TestMailerSendRaw(t *testing.T) {
	t.Parallel()

	m := newMailer(&captured{})
	ctx := context.Background()
	assert.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{}), mailer.ErrNoRecipient)
	assert.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{To: []string{"a"}}), mailer.ErrNoSubject)
	assert.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{To: []string{"a"}, Subject: "s"}), mailer.ErrNoContent)
	assert.NoError(t, m.SendRaw(ctx, &mailer.Email{To: []string{"a"}, Subject: "s", HTML: "<p>x</p>"}))
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tpl, err := mailer.ParseTemplate([]byte("---\nSubject: Hi\nPriority: 2\n---\nBody\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hi", tpl.Metadata["Subject"])
	assert.Equal(t, 2, tpl.Metadata["Priority"])
	assert.Equal(t, "Body\n", tpl.Body)

	tpl, err = mailer.ParseTemplate([]byte("---\n---\nOnly body"))
	require.NoError(t, err)
	assert.Empty(t, tpl.Metadata)
	assert.Equal(t, "Only body", tpl.Body)

	_, err = mailer.ParseTemplate([]byte("---\nSubject: Hi\n"))
	assert.ErrorIs(t, err, mailer.ErrInvalidFrontmatter)

	_, err = mailer.ParseTemplate([]byte("---"))
	assert.ErrorIs(t, err, mailer.ErrInvalidFrontmatter)
}

func TestButtonExtension(t *testing.T) {
	t.Parallel()

	md := goldmark.New(goldmark.WithExtensions(mailer.ButtonExtension()))
	cases := map[string]struct {
		src  string
		want string
		btn  bool
	}{
		"button":       {src: "[!button|Go](https://x.test)", want: `<a href="https://x.test" class="btn">Go</a>`, btn: true},
		"escapes":      {src: `[!button|<b>](https://x.test)`, want: "&lt;b&gt;", btn: true},
		"regular link": {src: "[Go](https://x.test)", want: `<a href="https://x.test">Go</a>`},
		"no url":       {src: "[!button|Go]"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, md.Convert([]byte(tc.src), &buf))
			assert.Equal(t, tc.btn, bytes.Contains(buf.Bytes(), []byte(`class="btn"`)))
			if tc.want != "" {
				assert.Contains(t, buf.String(), tc.want)
			}
		})
	}
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := mailer.NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))
	err := s.Send(context.Background(), &mailer.Email{To: []string{"a@b.c"}, Subject: "Overdue", Text: "body"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"subject":"Overdue"`)
	assert.Contains(t, buf.String(), `"to":"a@b.c"`)
}
