package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/middlewares"
)

// uuidPattern matches book copy IDs in paths.
const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// LoanStore reads and changes loans.
type LoanStore interface {
	ListBorrowedBy(ctx context.Context, userID string, number int) (catalog.Page[catalog.BookInstance], error)
	ListOnLoan(ctx context.Context, number int) (catalog.Page[catalog.BookInstance], error)
	GetInstance(ctx context.Context, id string) (catalog.BookInstance, error)
	UpdateDueBack(ctx context.Context, id string, dueBack time.Time) error
	Lend(ctx context.Context, id, borrowerID string, dueBack time.Time) error
	Return(ctx context.Context, id string) error
	BorrowerID(ctx context.Context, username string) (string, error)
}

// Loans serves the borrower and librarian loan pages.
type Loans struct {
	store LoanStore
	now   Clock
}

type LoansOption func(*Loans)

func WithLoansClock(now Clock) LoansOption {
	return func(h *Loans) {
		if now != nil {
			h.now = now
		}
	}
}

func NewLoans(store LoanStore, opts ...LoansOption) *Loans {
	h := &Loans{store: store, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Loans) Routes(r internal.Router) {
	r.GET("/catalog/mybooks/", h.myBooks, middlewares.RequireAuth())

	r.Group(func(r internal.Router) {
		r.Use(middlewares.RequirePermission(catalog.PermCanMarkReturned))

		r.GET("/catalog/borrowed/", h.borrowed)
		r.GET("/catalog/copies/{id:"+uuidPattern+"}/renew", h.renewForm)
		r.POST("/catalog/copies/{id:"+uuidPattern+"}/renew", h.renew)
		r.GET("/catalog/copies/{id:"+uuidPattern+"}/lend", h.lendForm)
		r.POST("/catalog/copies/{id:"+uuidPattern+"}/lend", h.lend)
		r.POST("/catalog/copies/{id:"+uuidPattern+"}/return", h.giveBack)
	})
}

func (h *Loans) today() time.Time { return catalog.Today(h.now()) }

func (h *Loans) myBooks(c internal.Context) error {
	n, err := page(c)
	if err != nil {
		return err
	}
	p, err := h.store.ListBorrowedBy(c, c.UserID(), n)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.MyBooks(shell(c), p, h.today()))
}

func (h *Loans) borrowed(c internal.Context) error {
	n, err := page(c)
	if err != nil {
		return err
	}
	p, err := h.store.ListOnLoan(c, n)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.Borrowed(shell(c), p, h.today()))
}

func (h *Loans) renewForm(c internal.Context) error {
	bi, err := h.store.GetInstance(c, c.Param("id"))
	if err != nil {
		return err
	}
	form := requests.RenewBook{RenewalDate: catalog.DefaultRenewalDate(h.today())}
	return c.Render(http.StatusOK, views.RenewForm(shell(c), bi, form, nil))
}

func (h *Loans) renew(c internal.Context) error {
	id := c.Param("id")
	bi, err := h.store.GetInstance(c, id)
	if err != nil {
		return err
	}
	var form requests.RenewBook
	errs, err := c.Bind(&form)
	if err != nil {
		return err
	}
	if errs.IsEmpty() {
		errs = form.Validate(h.today())
	}
	if !errs.IsEmpty() {
		return c.Render(http.StatusUnprocessableEntity, views.RenewForm(shell(c), bi, form, errs))
	}
	if err := h.store.UpdateDueBack(c, id, form.RenewalDate); err != nil {
		return err
	}
	c.LogInfo("loan renewed", "copy_id", id, "due_back", catalog.FormatDate(form.RenewalDate))
	flash(c, "Renewed "+bi.BookTitle+" until "+catalog.FormatDate(form.RenewalDate)+".")
	return c.Redirect(http.StatusSeeOther, "/catalog/borrowed/")
}

func (h *Loans) lendForm(c internal.Context) error {
	bi, err := h.store.GetInstance(c, c.Param("id"))
	if err != nil {
		return err
	}
	form := requests.LendCopy{DueBack: catalog.DefaultRenewalDate(h.today())}
	return c.Render(http.StatusOK, views.LendForm(shell(c), bi, form, nil))
}

func (h *Loans) lend(c internal.Context) error {
	id := c.Param("id")
	bi, err := h.store.GetInstance(c, id)
	if err != nil {
		return err
	}
	var form requests.LendCopy
	errs, err := c.Bind(&form)
	if err != nil {
		return err
	}
	if errs.IsEmpty() {
		errs = form.Validate(h.today())
	}
	var borrowerID string
	if errs.IsEmpty() {
		borrowerID, err = h.store.BorrowerID(c, form.Borrower)
		switch {
		case errors.Is(err, catalog.ErrUnknownBorrower):
			errs.Add("borrower", "No user with this username.")
		case err != nil:
			return err
		}
	}
	if errs.IsEmpty() {
		err = h.store.Lend(c, id, borrowerID, form.DueBack)
		switch {
		case errors.Is(err, catalog.ErrNotLendable):
			errs.Add("", "This copy is already on loan.")
		case err != nil:
			return err
		}
	}
	if !errs.IsEmpty() {
		return c.Render(http.StatusUnprocessableEntity, views.LendForm(shell(c), bi, form, errs))
	}
	c.LogInfo("copy lent", "copy_id", id, "borrower_id", borrowerID)
	flash(c, "Lent "+bi.BookTitle+" to "+form.Borrower+".")
	return c.Redirect(http.StatusSeeOther, "/catalog/borrowed/")
}

func (h *Loans) giveBack(c internal.Context) error {
	id := c.Param("id")
	bi, err := h.store.GetInstance(c, id)
	if err != nil {
		return err
	}
	if err := h.store.Return(c, id); err != nil {
		if errors.Is(err, catalog.ErrNotOnLoan) {
			return c.Error(http.StatusConflict, "This copy is not on loan.", internal.WithError(err))
		}
		return err
	}
	c.LogInfo("copy returned", "copy_id", id)
	flash(c, "Marked "+bi.BookTitle+" as returned.")
	if bi.BookID != nil {
		return c.Redirect(http.StatusSeeOther, bookPath(*bi.BookID))
	}
	return c.Redirect(http.StatusSeeOther, "/catalog/borrowed/")
}
