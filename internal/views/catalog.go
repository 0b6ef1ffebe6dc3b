package views

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

func bookURL(id int64) string   { return "/catalog/books/" + id64(id) }
func authorURL(id int64) string { return "/catalog/authors/" + id64(id) }

// Home shows the catalogue totals and the caller's visit count.
func Home(s Shell, st catalog.Stats, visits int) templ.Component {
	return Layout(s.WithTitle("Home"), component(func(_ context.Context, w *writer) {
		w.tag("h1", "", "Local Library Home")
		w.raw("<p>Welcome to <em>Local Library</em>, a very basic catalogue of books and authors.</p>")
		w.tag("h2", "", "Dynamic content")
		w.raw("<p>The library has the following record counts:</p><ul>")
		for _, row := range []struct {
			label string
			n     int
		}{
			{"Books", st.Books},
			{"Copies", st.Instances},
			{"Copies available", st.AvailableCopies},
			{"Authors", st.Authors},
			{"Genres", st.Genres},
			{"Languages", st.Languages},
		} {
			w.raw("<li><strong>")
			w.text(row.label)
			w.raw(":</strong> ")
			w.text(itoa(row.n))
			w.raw("</li>")
		}
		w.raw("</ul><p class=\"visits\">")
		w.textf("You have visited this page %d time%s.", visits, plural(visits))
		w.raw("</p>")
	}))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// BookList is one page of books.
func BookList(s Shell, p catalog.Page[catalog.Book]) templ.Component {
	return Layout(s.WithTitle("Book list"), component(func(ctx context.Context, w *writer) {
		w.tag("h1", "", "Book List")
		if len(p.Items) == 0 {
			w.raw("<p>There are no books in the library.</p>")
			return
		}
		w.raw("<ul>")
		for _, b := range p.Items {
			w.raw("<li>")
			w.link(bookURL(b.ID), b.Title)
			if b.Author != nil {
				w.raw(" (")
				w.text(b.Author.String())
				w.raw(")")
			}
			w.raw("</li>")
		}
		w.raw("</ul>")
		w.render(ctx, pager("/catalog/books/", p.Number, p.Pages()))
	}))
}

// BookDetail shows a book with its copies. canManage adds edit links.
func BookDetail(s Shell, d catalog.BookDetail, today time.Time, canManage bool) templ.Component {
	return Layout(s.WithTitle(d.Title), component(func(ctx context.Context, w *writer) {
		w.raw("<h1>Title: ")
		w.text(d.Title)
		w.raw("</h1><p><strong>Author:</strong> ")
		if d.Author != nil {
			w.link(authorURL(d.Author.ID), d.Author.String())
		} else {
			w.text("Unknown")
		}
		w.raw("</p><div class=\"summary\"><strong>Summary:</strong>")
		w.render(ctx, Markdown(d.Summary))
		w.raw("</div><p><strong>ISBN:</strong> ")
		w.text(d.ISBN)
		w.raw("</p><p><strong>Language:</strong> ")
		if d.Language != nil {
			w.text(d.Language.Name)
		}
		w.raw("</p><p><strong>Genre:</strong> ")
		w.text(d.DisplayGenre())
		w.raw("</p>")
		if canManage {
			w.raw(`<p class="actions">`)
			w.link(bookURL(d.ID)+"/edit", "Update book")
			w.raw(" ")
			w.link(bookURL(d.ID)+"/delete", "Delete book")
			w.raw("</p>")
		}

		w.raw(`<div class="copies">`)
		w.tag("h4", "", "Copies")
		if len(d.Copies) == 0 {
			w.raw("<p>There are no copies of this book.</p>")
		}
		for _, bi := range d.Copies {
			w.raw("<hr><p")
			w.attr("class", "status-"+string(bi.Status))
			w.raw(">")
			w.text(bi.Status.Label())
			w.raw("</p>")
			if bi.Status != catalog.StatusAvailable && bi.DueBack != nil {
				w.raw("<p><strong>Due to be returned:</strong> ")
				w.text(catalog.FormatDate(*bi.DueBack))
				if bi.IsOverdue(today) {
					w.raw(` <span class="overdue">(overdue)</span>`)
				}
				w.raw("</p>")
			}
			w.raw("<p><strong>Imprint:</strong> ")
			w.text(bi.Imprint)
			w.raw(`</p><p class="text-muted"><strong>Id:</strong> `)
			w.text(bi.ID)
			w.raw("</p>")
			if s.Librarian {
				w.render(ctx, copyActions(bi))
			}
		}
		w.raw("</div>")
	}))
}

// AuthorList is one page of authors.
func AuthorList(s Shell, p catalog.Page[catalog.Author]) templ.Component {
	return Layout(s.WithTitle("Author list"), component(func(ctx context.Context, w *writer) {
		w.tag("h1", "", "Author List")
		if len(p.Items) == 0 {
			w.raw("<p>There are no authors available.</p>")
			return
		}
		w.raw("<ul>")
		for _, a := range p.Items {
			w.raw("<li>")
			w.link(authorURL(a.ID), a.String())
			if span := a.Lifespan(); span != "" {
				w.raw(" (")
				w.text(span)
				w.raw(")")
			}
			w.raw("</li>")
		}
		w.raw("</ul>")
		w.render(ctx, pager("/catalog/authors/", p.Number, p.Pages()))
	}))
}

// AuthorDetail shows an author and their books.
func AuthorDetail(s Shell, d catalog.AuthorDetail, canManage bool) templ.Component {
	return Layout(s.WithTitle(d.String()), component(func(_ context.Context, w *writer) {
		w.raw("<h1>Author: ")
		w.text(d.String())
		w.raw("</h1>")
		if span := d.Lifespan(); span != "" {
			w.tag("p", "", span)
		}
		if canManage {
			w.raw(`<p class="actions">`)
			w.link(authorURL(d.ID)+"/edit", "Update author")
			w.raw(" ")
			w.link(authorURL(d.ID)+"/delete", "Delete author")
			w.raw("</p>")
		}
		w.tag("h4", "", "Books")
		if len(d.Books) == 0 {
			w.raw("<p>This author has no books.</p>")
			return
		}
		w.raw("<dl>")
		for _, b := range d.Books {
			w.raw("<dt>")
			w.link(bookURL(b.ID), b.Title)
			w.raw("</dt><dd>")
			w.text(b.Summary)
			w.raw("</dd>")
		}
		w.raw("</dl>")
	}))
}

// pager links to the neighbouring pages of a listing at path.
func pager(path string, number, pages int) templ.Component {
	return component(func(_ context.Context, w *writer) {
		if pages <= 1 {
			return
		}
		w.raw(`<div class="pagination">`)
		if number > 1 {
			w.link(path+"?page="+itoa(number-1), "previous")
			w.raw(" ")
		}
		w.raw(`<span class="page-current">`)
		w.textf("Page %d of %d.", number, pages)
		w.raw("</span>")
		if number < pages {
			w.raw(" ")
			w.link(path+"?page="+itoa(number+1), "next")
		}
		w.raw("</div>")
	})
}
