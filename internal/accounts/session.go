package accounts

import (
	"net/url"
	"strings"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

// Session keys written at sign-in.
const (
	SessionRole     = "role"
	SessionUsername = "username"
)

// DefaultRedirect is where sign-in lands without a usable ?next=.
const DefaultRedirect = "/catalog/"

// RolePermissions is the role table for internal.WithRoles.
func RolePermissions() internal.RolePermissions {
	out := make(internal.RolePermissions)
	for role, perms := range catalog.RolePermissions() {
		granted := make([]internal.Permission, len(perms))
		for i, p := range perms {
			granted[i] = internal.Permission(p)
		}
		out[role] = granted
	}
	return out
}

// RoleFromSession is the role extractor for internal.WithRoles.
func RoleFromSession(c internal.Context) string {
	if !c.IsAuthenticated() {
		return ""
	}
	v, err := c.SessionValue(SessionRole)
	if err != nil {
		return ""
	}
	role, _ := v.(string)
	return role
}

// SignIn binds u to the caller's session.
func SignIn(c internal.Context, u User) error {
	if err := c.AuthenticateSession(u.ID); err != nil {
		return err
	}
	if err := c.SetSessionValue(SessionRole, u.Role); err != nil {
		return err
	}
	return c.SetSessionValue(SessionUsername, u.Username)
}

// Username is the signed-in user's name, or "".
func Username(c internal.Context) string {
	if !c.IsAuthenticated() {
		return ""
	}
	v, _ := c.SessionValue(SessionUsername)
	name, _ := v.(string)
	return name
}

// SafeNext returns next when it is a local path, else DefaultRedirect.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return DefaultRedirect
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultRedirect
	}
	return next
}
