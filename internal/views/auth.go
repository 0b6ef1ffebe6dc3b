package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

// Login is the sign-in form. message is shown above the fields.
func Login(s Shell, form requests.Login, errs validator.ValidationErrors, message string) templ.Component {
	return Layout(s.WithTitle("Login"), component(func(_ context.Context, w *writer) {
		w.tag("h1", "", "Login")
		if message != "" {
			w.tag("p", "errorlist", message)
		}
		w.raw(`<form method="post" action="/accounts/login/">`)
		formErrors(w, errs)
		input(w, errs, "text", "username", "Username", form.Username, "")
		input(w, errs, "password", "password", "Password", "", "")
		w.raw(`<input type="hidden" name="next"`)
		w.attr("value", form.Next)
		w.raw(">")
		submit(w, "Login")
		w.raw("</form>")
	}))
}
