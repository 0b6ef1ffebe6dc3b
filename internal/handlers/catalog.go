package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/pkg/session"
)

// idPattern matches integer record IDs in paths.
const idPattern = `[0-9]+`

// visitsKey holds the home page visit counter in the session.
const visitsKey = "num_visits"

// CatalogStore is the read side of the catalogue.
type CatalogStore interface {
	Stats(ctx context.Context) (catalog.Stats, error)
	ListBooks(ctx context.Context, number int) (catalog.Page[catalog.Book], error)
	GetBook(ctx context.Context, id int64) (catalog.BookDetail, error)
	ListAuthors(ctx context.Context, number int) (catalog.Page[catalog.Author], error)
	GetAuthor(ctx context.Context, id int64) (catalog.AuthorDetail, error)
}

// Catalog serves the public browsing pages.
type Catalog struct {
	store CatalogStore
	now   Clock
}

type CatalogOption func(*Catalog)

func WithCatalogClock(now Clock) CatalogOption {
	return func(h *Catalog) {
		if now != nil {
			h.now = now
		}
	}
}

func NewCatalog(store CatalogStore, opts ...CatalogOption) *Catalog {
	h := &Catalog{store: store, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Catalog) Routes(r internal.Router) {
	r.GET("/", func(c internal.Context) error {
		return c.Redirect(http.StatusFound, "/catalog/")
	})
	r.GET("/catalog/", h.home)
	r.GET("/catalog/books/", h.books)
	r.GET("/catalog/books/{id:"+idPattern+"}", h.book)
	r.GET("/catalog/authors/", h.authors)
	r.GET("/catalog/authors/{id:"+idPattern+"}", h.author)
}

func (h *Catalog) home(c internal.Context) error {
	stats, err := h.store.Stats(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.Home(shell(c), stats, countVisit(c)))
}

// countVisit returns the visits recorded before this one and stores the
// incremented count. Without a session store the count stays 0.
func countVisit(c internal.Context) int {
	sess, err := c.Session()
	if err != nil {
		if !errors.Is(err, session.ErrNotConfigured) {
			c.LogWarn("session unavailable", slog.Any("error", err))
		}
		return 0
	}
	var visits int64
	if sess != nil {
		visits, _ = session.IntValue(sess, visitsKey)
	}
	if err := c.SetSessionValue(visitsKey, visits+1); err != nil {
		c.LogWarn("visit counter not saved", slog.Any("error", err))
	}
	return int(visits)
}

func (h *Catalog) books(c internal.Context) error {
	n, err := page(c)
	if err != nil {
		return err
	}
	p, err := h.store.ListBooks(c, n)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.BookList(shell(c), p))
}

func (h *Catalog) book(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, err := h.store.GetBook(c, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.BookDetail(shell(c), d, catalog.Today(h.now()), c.Can(catalog.PermManageRecords)))
}

func (h *Catalog) authors(c internal.Context) error {
	n, err := page(c)
	if err != nil {
		return err
	}
	p, err := h.store.ListAuthors(c, n)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.AuthorList(shell(c), p))
}

func (h *Catalog) author(c internal.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, err := h.store.GetAuthor(c, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.AuthorDetail(shell(c), d, c.Can(catalog.PermManageRecords)))
}

// paramID parses the {id} path parameter; overflowing IDs are not found.
func paramID(c internal.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, catalog.ErrNotFound
	}
	return id, nil
}
