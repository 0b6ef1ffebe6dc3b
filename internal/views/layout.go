package views

import (
	"context"

	"github.com/a-h/templ"
)

// Shell is what the layout needs around a page body.
type Shell struct {
	Title     string
	Username  string
	Librarian bool
	Flash     string
	// Path is the current request URI, used for the sign-in ?next=.
	Path string
}

func (s Shell) WithTitle(title string) Shell {
	s.Title = title
	return s
}

func (s Shell) SignedIn() bool { return s.Username != "" }

// Layout wraps body in the site chrome.
func Layout(s Shell, body templ.Component) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw("<title>")
		if s.Title != "" {
			w.text(s.Title + " | ")
		}
		w.raw(`Local Library</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		w.raw(`<div class="layout"><nav class="sidebar"><ul>`)
		navItem(w, "/catalog/", "Home")
		navItem(w, "/catalog/books/", "All books")
		navItem(w, "/catalog/authors/", "All authors")
		w.raw("</ul><ul>")
		if s.SignedIn() {
			w.raw(`<li class="user">User: `)
			w.text(s.Username)
			w.raw("</li>")
			navItem(w, "/catalog/mybooks/", "My borrowed")
			w.raw(`<li><form method="post" action="/accounts/logout/"><button type="submit" class="link">Logout</button></form></li>`)
		} else {
			navItem(w, "/accounts/login/?next="+queryEscape(s.Path), "Login")
		}
		w.raw("</ul>")
		if s.Librarian {
			w.raw(`<ul class="staff"><li class="user">Staff</li>`)
			navItem(w, "/catalog/borrowed/", "All borrowed")
			navItem(w, "/catalog/authors/new", "Create author")
			navItem(w, "/catalog/books/new", "Create book")
			w.raw("</ul>")
		}
		w.raw(`</nav><main class="content">`)
		if s.Flash != "" {
			w.tag("p", "flash", s.Flash)
		}
		w.render(ctx, body)
		w.raw("</main></div></body></html>")
	})
}

func navItem(w *writer, url, label string) {
	w.raw("<li>")
	w.link(url, label)
	w.raw("</li>")
}
