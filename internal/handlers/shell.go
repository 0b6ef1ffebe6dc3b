package handlers

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/views"
)

const flashKey = "message"

// Clock returns the current time. Handlers take one so tests can pin
// "today".
type Clock func() time.Time

// shell collects the layout data for the current caller.
func shell(c internal.Context) views.Shell {
	s := views.Shell{
		Username:  accounts.Username(c),
		Librarian: c.Can(catalog.PermCanMarkReturned),
		Path:      c.Request().URL.RequestURI(),
	}
	var msg string
	if err := c.Flash(flashKey, &msg); err == nil {
		s.Flash = msg
	}
	return s
}

// flash queues msg for the next page. Failures only lose the message.
func flash(c internal.Context, msg string) {
	if err := c.SetFlash(flashKey, msg); err != nil {
		c.LogWarn("flash not set", slog.Any("error", err))
	}
}

// page reads ?page=, answering ErrInvalidPage for malformed values.
func page(c internal.Context) (int, error) {
	n, ok := internal.QueryInt(c, "page", 1)
	if !ok {
		return 0, catalog.ErrInvalidPage
	}
	return n, nil
}
