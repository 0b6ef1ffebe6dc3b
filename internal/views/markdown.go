package views

import (
	"bytes"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/locallibrary/pkg/sanitizer"
)

var (
	mdOnce sync.Once
	md     goldmark.Markdown
)

// Markdown renders src as sanitized HTML. Raw HTML in src is dropped.
func Markdown(src string) templ.Component {
	mdOnce.Do(func() {
		md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	})
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return templ.Raw(templ.EscapeString(src))
	}
	return templ.Raw(sanitizer.SanitizeHTML(buf.String()))
}
