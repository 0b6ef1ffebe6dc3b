package accounts

import (
	"strings"
	"time"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

func (u User) IsLibrarian() bool { return u.Role == catalog.RoleLibrarian }

// ValidRole reports whether role is one users may hold.
func ValidRole(role string) bool {
	return role == catalog.RoleMember || role == catalog.RoleLibrarian
}
