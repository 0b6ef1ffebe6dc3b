// Package views renders the catalogue pages as templ components.
//
// Every page takes a Shell with the data the layout needs (title, signed-in
// user, flash message) and is rendered with Context.Render:
//
//	return c.Render(http.StatusOK, views.BookList(shell, page))
//
// Static holds the stylesheet served under /static/.
package views
