package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

// DefaultLoginURL is where anonymous callers are sent by the guards.
const DefaultLoginURL = "/accounts/login/"

type userIDKey struct{}

// LoginRedirect is the sign-in URL carrying the current path in ?next=.
func LoginRedirect(loginURL string, r *http.Request) string {
	return loginURL + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
}

// RequireAuth redirects anonymous callers to sign-in with 303.
func RequireAuth() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, LoginRedirect(DefaultLoginURL, c.Request()))
			}
			return next(c)
		}
	}
}

// RequirePermission redirects anonymous callers to sign-in and answers 403
// to signed-in callers whose role lacks perm.
func RequirePermission(perm internal.Permission) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, LoginRedirect(DefaultLoginURL, c.Request()))
			}
			if !c.Can(perm) {
				c.LogWarn("permission denied", slog.String("permission", string(perm)))
				return internal.ErrForbidden("You do not have permission to access this page.")
			}
			return next(c)
		}
	}
}

// UserID exposes the signed-in user's ID to UserIDExtractor.
func UserID() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if id := c.UserID(); id != "" {
				c.Set(userIDKey{}, id)
			}
			return next(c)
		}
	}
}

// UserIDExtractor adds user_id to log records.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(userIDKey{}).(string); ok && v != "" {
			return slog.String("user_id", v), true
		}
		return slog.Attr{}, false
	}
}
