package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/middlewares"
)

// RecordStore edits authors and books.
type RecordStore interface {
	GetAuthor(ctx context.Context, id int64) (catalog.AuthorDetail, error)
	AllAuthors(ctx context.Context) ([]catalog.Author, error)
	CreateAuthor(ctx context.Context, in catalog.AuthorInput) (int64, error)
	UpdateAuthor(ctx context.Context, id int64, in catalog.AuthorInput) error
	DeleteAuthor(ctx context.Context, id int64) error

	GetBook(ctx context.Context, id int64) (catalog.BookDetail, error)
	ListGenres(ctx context.Context) ([]catalog.Genre, error)
	ListLanguages(ctx context.Context) ([]catalog.Language, error)
	CreateBook(ctx context.Context, in catalog.BookInput) (int64, error)
	UpdateBook(ctx context.Context, id int64, in catalog.BookInput) error
	DeleteBook(ctx context.Context, id int64) error
}

// Records serves the staff create, update and delete forms.
type Records struct {
	store RecordStore
}

func NewRecords(store RecordStore) *Records {
	return &Records{store: store}
}

func (h *Records) Routes(r internal.Router) {
	r.Group(func(r internal.Router) {
		r.Use(middlewares.RequirePermission(catalog.PermManageRecords))

		r.GET("/catalog/authors/new", h.newAuthor)
		r.POST("/catalog/authors/new", h.createAuthor)
		r.GET("/catalog/authors/{id:"+idPattern+"}/edit", h.editAuthor)
		r.POST("/catalog/authors/{id:"+idPattern+"}/edit", h.updateAuthor)
		r.GET("/catalog/authors/{id:"+idPattern+"}/delete", h.confirmDeleteAuthor)
		r.POST("/catalog/authors/{id:"+idPattern+"}/delete", h.deleteAuthor)

		r.GET("/catalog/books/new", h.newBook)
		r.POST("/catalog/books/new", h.createBook)
		r.GET("/catalog/books/{id:"+idPattern+"}/edit", h.editBook)
		r.POST("/catalog/books/{id:"+idPattern+"}/edit", h.updateBook)
		r.GET("/catalog/books/{id:"+idPattern+"}/delete", h.confirmDeleteBook)
		r.POST("/catalog/books/{id:"+idPattern+"}/delete", h.deleteBook)
	})
}

const (
	createAuthorTitle = "Create author"
	updateAuthorTitle = "Update author"
	createBookTitle   = "Create book"
	updateBookTitle   = "Update book"
)

func (h *Records) newAuthor(c internal.Context) error {
	return c.Render(http.StatusOK, views.AuthorForm(shell(c), createAuthorTitle, c.Request().URL.Path, requests.NewAuthor(), nil))
}

// bindAuthor binds and validates an author form. A non-empty
// ValidationErrors means the form must be shown again.
func bindAuthor(c internal.Context) (requests.Author, internal.ValidationErrors, error) {
	var form requests.Author
	errs, err := c.Bind(&form)
	if err != nil {
		return form, nil, err
	}
	if errs.IsEmpty() {
		errs = form.Validate()
	}
	return form, errs, nil
}

func (h *Records) createAuthor(c internal.Context) error {
	form, errs, err := bindAuthor(c)
	if err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return c.Render(http.StatusUnprocessableEntity, views.AuthorForm(shell(c), createAuthorTitle, c.Request().URL.Path, form, errs))
	}
	id, err := h.store.CreateAuthor(c, form.Input())
	if err != nil {
		return err
	}
	c.LogInfo("author created", "author_id", id)
	flash(c, "Author created.")
	return c.Redirect(http.StatusSeeOther, authorPath(id))
}

func (h *Records) editAuthor(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	a, err := h.store.GetAuthor(c, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.AuthorForm(shell(c), updateAuthorTitle, c.Request().URL.Path, requests.AuthorFrom(a.Author), nil))
}

func (h *Records) updateAuthor(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetAuthor(c, id); err != nil {
		return err
	}
	form, errs, err := bindAuthor(c)
	if err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return c.Render(http.StatusUnprocessableEntity, views.AuthorForm(shell(c), updateAuthorTitle, c.Request().URL.Path, form, errs))
	}
	if err := h.store.UpdateAuthor(c, id, form.Input()); err != nil {
		return err
	}
	flash(c, "Author updated.")
	return c.Redirect(http.StatusSeeOther, authorPath(id))
}

func (h *Records) confirmDeleteAuthor(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	a, err := h.store.GetAuthor(c, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.ConfirmDelete(shell(c), "author", a.String(), c.Request().URL.Path, authorPath(id)))
}

func (h *Records) deleteAuthor(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteAuthor(c, id); err != nil {
		return err
	}
	c.LogInfo("author deleted", "author_id", id)
	flash(c, "Author deleted.")
	return c.Redirect(http.StatusSeeOther, "/catalog/authors/")
}

// choices loads the book form's select options concurrently.
func (h *Records) choices(ctx context.Context) (views.BookChoices, error) {
	var ch views.BookChoices
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ch.Authors, err = h.store.AllAuthors(ctx)
		return err
	})
	g.Go(func() (err error) {
		ch.Genres, err = h.store.ListGenres(ctx)
		return err
	})
	g.Go(func() (err error) {
		ch.Languages, err = h.store.ListLanguages(ctx)
		return err
	})
	return ch, g.Wait()
}

func (h *Records) bookForm(c internal.Context, code int, title string, form requests.Book, errs internal.ValidationErrors) error {
	ch, err := h.choices(c)
	if err != nil {
		return err
	}
	return c.Render(code, views.BookForm(shell(c), title, c.Request().URL.Path, form, ch, errs))
}

// choiceErrors turns a selection of a since-deleted author, language or
// genre into a field error. It returns nil for any other error.
func choiceErrors(err error) internal.ValidationErrors {
	var ce *catalog.ChoiceError
	if !errors.As(err, &ce) {
		return nil
	}
	var errs internal.ValidationErrors
	errs.Add(ce.Field, "Select a valid choice. That choice is not one of the available choices.")
	return errs
}

func (h *Records) newBook(c internal.Context) error {
	return h.bookForm(c, http.StatusOK, createBookTitle, requests.Book{}, nil)
}

func (h *Records) createBook(c internal.Context) error {
	var form requests.Book
	errs, err := c.Bind(&form)
	if err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return h.bookForm(c, http.StatusUnprocessableEntity, createBookTitle, form, errs)
	}
	id, err := h.store.CreateBook(c, form.Input())
	if errs := choiceErrors(err); errs != nil {
		return h.bookForm(c, http.StatusUnprocessableEntity, createBookTitle, form, errs)
	}
	if err != nil {
		return err
	}
	c.LogInfo("book created", "book_id", id)
	flash(c, "Book created.")
	return c.Redirect(http.StatusSeeOther, bookPath(id))
}

func (h *Records) editBook(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	b, err := h.store.GetBook(c, id)
	if err != nil {
		return err
	}
	return h.bookForm(c, http.StatusOK, updateBookTitle, requests.BookFrom(b.Book), nil)
}

func (h *Records) updateBook(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetBook(c, id); err != nil {
		return err
	}
	var form requests.Book
	errs, err := c.Bind(&form)
	if err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return h.bookForm(c, http.StatusUnprocessableEntity, updateBookTitle, form, errs)
	}
	err = h.store.UpdateBook(c, id, form.Input())
	if errs := choiceErrors(err); errs != nil {
		return h.bookForm(c, http.StatusUnprocessableEntity, updateBookTitle, form, errs)
	}
	if err != nil {
		return err
	}
	flash(c, "Book updated.")
	return c.Redirect(http.StatusSeeOther, bookPath(id))
}

func (h *Records) confirmDeleteBook(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	b, err := h.store.GetBook(c, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.ConfirmDelete(shell(c), "book", b.Title, c.Request().URL.Path, bookPath(id)))
}

func (h *Records) deleteBook(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteBook(c, id); err != nil {
		return err
	}
	c.LogInfo("book deleted", "book_id", id)
	flash(c, "Book deleted.")
	return c.Redirect(http.StatusSeeOther, "/catalog/books/")
}

func bookPath(id int64) string   { return "/catalog/books/" + strconv.FormatInt(id, 10) }
func authorPath(id int64) string { return "/catalog/authors/" + strconv.FormatInt(id, 10) }
