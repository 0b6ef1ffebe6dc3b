package accounts

import "errors"

var (
	ErrInvalidCredentials = errors.New("accounts: invalid username or password")
	ErrUserNotFound       = errors.New("accounts: user not found")
	ErrEmptyPassword      = errors.New("accounts: password is empty")
	ErrInvalidRole        = errors.New("accounts: invalid role")
)
