package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/middlewares"
)

// Authenticator checks sign-in credentials; accounts.Service implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (accounts.User, error)
}

// Accounts serves sign-in and sign-out.
type Accounts struct {
	auth    Authenticator
	limiter *middlewares.Limiter
}

// NewAccounts builds the handler. A nil limiter disables rate limiting.
func NewAccounts(auth Authenticator, limiter *middlewares.Limiter) *Accounts {
	return &Accounts{auth: auth, limiter: limiter}
}

func (h *Accounts) Routes(r internal.Router) {
	var limit []internal.Middleware
	if h.limiter != nil {
		limit = append(limit, middlewares.RateLimit(h.limiter))
	}
	r.GET(middlewares.DefaultLoginURL, h.loginForm)
	r.POST(middlewares.DefaultLoginURL, h.login, limit...)
	r.POST("/accounts/logout/", h.logout)
}

func (h *Accounts) loginForm(c internal.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, accounts.SafeNext(c.Query("next")))
	}
	form := requests.Login{Next: c.Query("next")}
	return c.Render(http.StatusOK, views.Login(shell(c), form, nil, ""))
}

func (h *Accounts) login(c internal.Context) error {
	var form requests.Login
	errs, err := c.Bind(&form)
	if err != nil {
		return err
	}
	if !errs.IsEmpty() {
		return c.Render(http.StatusUnprocessableEntity, views.Login(shell(c), form, errs, ""))
	}

	u, err := h.auth.Authenticate(c, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return c.Render(http.StatusUnprocessableEntity, views.Login(shell(c), form, nil,
				"Your username and password didn't match. Please try again."))
		}
		return err
	}
	if err := accounts.SignIn(c, u); err != nil {
		return err
	}
	c.LogInfo("signed in", "user_id", u.ID)
	return c.Redirect(http.StatusSeeOther, accounts.SafeNext(form.Next))
}

func (h *Accounts) logout(c internal.Context) error {
	if err := c.DestroySession(); err != nil {
		return err
	}
	flash(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, accounts.DefaultRedirect)
}
