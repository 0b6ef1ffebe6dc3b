package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

// AuthorForm is the create and update form. action is the POST target.
func AuthorForm(s Shell, title, action string, form requests.Author, errs validator.ValidationErrors) templ.Component {
	return Layout(s.WithTitle(title), component(func(_ context.Context, w *writer) {
		w.tag("h1", "", title)
		w.raw(`<form method="post"`)
		w.attr("action", action)
		w.raw(">")
		formErrors(w, errs)
		input(w, errs, "text", "first_name", "First name", form.FirstName, "")
		input(w, errs, "text", "last_name", "Last name", form.LastName, "")
		input(w, errs, "date", "date_of_birth", "Date of birth", dateValue(form.DateOfBirth), "")
		input(w, errs, "date", "date_of_death", "Died", dateValue(form.DateOfDeath), "")
		submit(w, "Submit")
		w.raw("</form>")
	}))
}

// BookChoices are the options offered by BookForm.
type BookChoices struct {
	Authors   []catalog.Author
	Genres    []catalog.Genre
	Languages []catalog.Language
}

func BookForm(s Shell, title, action string, form requests.Book, choices BookChoices, errs validator.ValidationErrors) templ.Component {
	return Layout(s.WithTitle(title), component(func(_ context.Context, w *writer) {
		w.tag("h1", "", title)
		w.raw(`<form method="post"`)
		w.attr("action", action)
		w.raw(">")
		formErrors(w, errs)
		input(w, errs, "text", "title", "Title", form.Title, "")
		textarea(w, errs, "summary", "Summary", form.Summary)
		input(w, errs, "text", "isbn", "ISBN", form.ISBN, "13 Character ISBN number")

		authors := make([]option, len(choices.Authors))
		for i, a := range choices.Authors {
			authors[i] = option{id64(a.ID), a.String()}
		}
		selectField(w, errs, "author", "Author", authors, selectedID(form.AuthorID), false)

		languages := make([]option, len(choices.Languages))
		for i, l := range choices.Languages {
			languages[i] = option{id64(l.ID), l.Name}
		}
		selectField(w, errs, "language", "Language", languages, selectedID(form.LanguageID), false)

		genres := make([]option, len(choices.Genres))
		for i, g := range choices.Genres {
			genres[i] = option{id64(g.ID), g.Name}
		}
		selected := make([]string, len(form.GenreIDs))
		for i, id := range form.GenreIDs {
			selected[i] = id64(id)
		}
		selectField(w, errs, "genre", "Genre", genres, selected, true)

		submit(w, "Submit")
		w.raw("</form>")
	}))
}

func selectedID(id *int64) []string {
	if id == nil {
		return nil
	}
	return []string{id64(*id)}
}

// ConfirmDelete asks before removing the record named label.
func ConfirmDelete(s Shell, kind, label, action, cancel string) templ.Component {
	return Layout(s.WithTitle("Delete "+kind), component(func(_ context.Context, w *writer) {
		w.raw("<h1>Delete ")
		w.text(kind)
		w.raw(": ")
		w.text(label)
		w.raw("</h1><p>Are you sure you want to delete this ")
		w.text(kind)
		w.raw(`?</p><form method="post"`)
		w.attr("action", action)
		w.raw(">")
		submit(w, "Yes, delete")
		w.raw(" ")
		w.link(cancel, "Cancel")
		w.raw("</form>")
	}))
}
