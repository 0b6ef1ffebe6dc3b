package views

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPage renders a failed request. An empty message falls back to the
// status text.
func ErrorPage(s Shell, code int, message string) templ.Component {
	title := http.StatusText(code)
	if message == "" {
		message = title
	}
	return Layout(s.WithTitle(title), component(func(_ context.Context, w *writer) {
		w.raw(`<h1 class="error-code">`)
		w.text(itoa(code))
		w.raw(" ")
		w.text(title)
		w.raw("</h1>")
		w.tag("p", "", message)
		w.raw("<p>")
		w.link("/catalog/", "Back to the catalogue")
		w.raw("</p>")
	}))
}
