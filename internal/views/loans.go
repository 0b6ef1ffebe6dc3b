package views

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

func copyURL(id string) string { return "/catalog/copies/" + id }

// MyBooks lists the caller's copies on loan.
func MyBooks(s Shell, p catalog.Page[catalog.BookInstance], today time.Time) templ.Component {
	return Layout(s.WithTitle("My borrowed books"), component(func(ctx context.Context, w *writer) {
		w.tag("h1", "", "Borrowed books")
		if len(p.Items) == 0 {
			w.raw("<p>There are no books borrowed.</p>")
			return
		}
		w.raw("<ul>")
		for _, bi := range p.Items {
			loanItem(w, bi, today, false)
		}
		w.raw("</ul>")
		w.render(ctx, pager("/catalog/mybooks/", p.Number, p.Pages()))
	}))
}

// Borrowed lists every copy on loan with its borrower.
func Borrowed(s Shell, p catalog.Page[catalog.BookInstance], today time.Time) templ.Component {
	return Layout(s.WithTitle("All borrowed books"), component(func(ctx context.Context, w *writer) {
		w.tag("h1", "", "All borrowed books")
		if len(p.Items) == 0 {
			w.raw("<p>There are no books borrowed.</p>")
			return
		}
		w.raw("<ul>")
		for _, bi := range p.Items {
			loanItem(w, bi, today, true)
		}
		w.raw("</ul>")
		w.render(ctx, pager("/catalog/borrowed/", p.Number, p.Pages()))
	}))
}

func loanItem(w *writer, bi catalog.BookInstance, today time.Time, staff bool) {
	w.raw("<li")
	if bi.IsOverdue(today) {
		w.attr("class", "overdue")
	}
	w.raw(">")
	if bi.BookID != nil {
		w.link(bookURL(*bi.BookID), bi.BookTitle)
	} else {
		w.text(bi.BookTitle)
	}
	w.raw(" (")
	w.text(dateValue(bi.DueBack))
	w.raw(")")
	if staff {
		if bi.Borrower != nil {
			w.raw(" - ")
			w.text(bi.Borrower.DisplayName())
		}
		w.raw(" ")
		w.link(copyURL(bi.ID)+"/renew", "Renew")
	}
	w.raw("</li>")
}

// copyActions are the librarian controls shown under a copy.
func copyActions(bi catalog.BookInstance) templ.Component {
	return component(func(_ context.Context, w *writer) {
		w.raw(`<p class="actions">`)
		if bi.Status == catalog.StatusOnLoan {
			w.link(copyURL(bi.ID)+"/renew", "Renew")
			w.raw(`<form method="post" class="inline"`)
			w.attr("action", copyURL(bi.ID)+"/return")
			w.raw(">")
			submit(w, "Mark returned")
			w.raw("</form>")
		} else {
			w.link(copyURL(bi.ID)+"/lend", "Lend")
		}
		w.raw("</p>")
	})
}

// RenewForm asks for a new due date for a copy.
func RenewForm(s Shell, bi catalog.BookInstance, form requests.RenewBook, errs validator.ValidationErrors) templ.Component {
	return Layout(s.WithTitle("Renew"), component(func(_ context.Context, w *writer) {
		w.raw("<h1>Renew: ")
		w.text(bi.BookTitle)
		w.raw("</h1>")
		if bi.Borrower != nil {
			w.raw("<p>Borrower: ")
			w.text(bi.Borrower.DisplayName())
			w.raw("</p>")
		}
		w.raw("<p>Due date: ")
		w.text(dateValue(bi.DueBack))
		w.raw(`</p><form method="post"`)
		w.attr("action", copyURL(bi.ID)+"/renew")
		w.raw(">")
		formErrors(w, errs)
		input(w, errs, "date", "renewal_date", "Renewal date", dateValue(&form.RenewalDate), catalog.RenewalHelpText)
		submit(w, "Submit")
		w.raw("</form>")
	}))
}

// LendForm puts an available copy on loan.
func LendForm(s Shell, bi catalog.BookInstance, form requests.LendCopy, errs validator.ValidationErrors) templ.Component {
	return Layout(s.WithTitle("Lend"), component(func(_ context.Context, w *writer) {
		w.raw("<h1>Lend: ")
		w.text(bi.BookTitle)
		w.raw(`</h1><p class="text-muted">`)
		w.text(bi.ID)
		w.raw(`</p><form method="post"`)
		w.attr("action", copyURL(bi.ID)+"/lend")
		w.raw(">")
		formErrors(w, errs)
		input(w, errs, "text", "borrower", "Borrower username", form.Borrower, "")
		input(w, errs, "date", "due_back", "Due back", dateValue(&form.DueBack), catalog.RenewalHelpText)
		submit(w, "Lend")
		w.raw("</form>")
	}))
}
