package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/middlewares"
	"github.com/dmitrymomot/locallibrary/pkg/binder"
)

// ErrorHandler renders handler errors as HTML error pages.
func ErrorHandler() internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		code, msg := classify(err)
		attrs := []any{
			slog.Int("status", code),
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		}
		if pe, ok := middlewares.AsPanicError(err); ok && pe.Stack != nil {
			attrs = append(attrs, slog.String("stack", string(pe.Stack)))
		}
		switch {
		case code >= http.StatusInternalServerError:
			c.LogError("request failed", attrs...)
		case code != http.StatusNotFound:
			c.LogWarn("request rejected", attrs...)
		}
		return c.Render(code, views.ErrorPage(shell(c), code, msg))
	}
}

// classify maps err to a status code and a message safe to show.
func classify(err error) (int, string) {
	if _, ok := middlewares.AsPanicError(err); ok {
		return http.StatusInternalServerError, ""
	}
	if _, ok := middlewares.AsTimeoutError(err); ok {
		return http.StatusServiceUnavailable, "The request took too long. Please try again."
	}
	if he, ok := internal.AsHTTPError(err); ok {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, ""
		}
		return he.Code, he.Message
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrInvalidPage):
		return http.StatusNotFound, "The page you requested does not exist."
	case errors.Is(err, binder.ErrParseRequest):
		return http.StatusBadRequest, "The submitted form could not be read."
	}
	return http.StatusInternalServerError, ""
}

// NotFound is the handler for unmatched routes.
func NotFound(c internal.Context) error {
	return catalog.ErrNotFound
}

func MethodNotAllowed(c internal.Context) error {
	return c.Error(http.StatusMethodNotAllowed, "Method not allowed.")
}
