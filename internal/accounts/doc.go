// Package accounts signs users in and maps their roles to permissions.
//
// Passwords are stored as bcrypt hashes. Authenticate spends the same
// bcrypt work for unknown usernames as for wrong passwords, and both fail
// with ErrInvalidCredentials.
package accounts
