package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so markup reads top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) text(s string) { w.raw(templ.EscapeString(s)) }

func (w *writer) textf(format string, args ...any) { w.text(fmt.Sprintf(format, args...)) }

func (w *writer) attr(name, value string) {
	w.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes an href attribute, dropping unsafe URL schemes.
func (w *writer) href(url string) { w.attr("href", string(templ.URL(url))) }

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// tag writes an element with escaped text content.
func (w *writer) tag(name, class, content string) {
	w.raw("<", name)
	if class != "" {
		w.attr("class", class)
	}
	w.raw(">")
	w.text(content)
	w.raw("</", name, ">")
}

func (w *writer) link(url, content string) {
	w.raw("<a")
	w.href(url)
	w.raw(">")
	w.text(content)
	w.raw("</a>")
}

func component(fn func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		fn(ctx, w)
		return w.err
	})
}

func itoa(n int) string { return strconv.Itoa(n) }

func id64(n int64) string { return strconv.FormatInt(n, 10) }

func queryEscape(s string) string { return url.QueryEscape(s) }
