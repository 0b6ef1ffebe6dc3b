package repository

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var userColumns = []any{"id", "username", "email", "first_name", "last_name", "password_hash", "role", "created_at"}

func (s *Store) user(ctx context.Context, where goqu.Ex) (accounts.User, error) {
	rows, err := s.query(ctx, pg.From("users").Select(userColumns...).Where(where).Prepared(true))
	if err != nil {
		return accounts.User{}, err
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[accounts.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.User{}, accounts.ErrUserNotFound
		}
		return accounts.User{}, errors.Join(ErrScan, err)
	}
	return u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (accounts.User, error) {
	return s.user(ctx, goqu.Ex{"username": username})
}

func (s *Store) UserByID(ctx context.Context, id string) (accounts.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return accounts.User{}, accounts.ErrUserNotFound
	}
	return s.user(ctx, goqu.Ex{"id": id})
}

// CreateUser inserts u, whose PasswordHash must already be set, and returns
// the new ID.
func (s *Store) CreateUser(ctx context.Context, u accounts.User) (string, error) {
	if !accounts.ValidRole(u.Role) {
		return "", accounts.ErrInvalidRole
	}
	var id string
	err := s.queryRow(ctx, pg.Insert("users").
		Rows(goqu.Record{
			"username":      u.Username,
			"email":         u.Email,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"password_hash": u.PasswordHash,
			"role":          u.Role,
		}).
		Returning("id").
		Prepared(true), &id)
	return id, err
}

// BorrowerID resolves a username to the user ID a copy is lent to.
func (s *Store) BorrowerID(ctx context.Context, username string) (string, error) {
	u, err := s.UserByUsername(ctx, username)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return "", catalog.ErrUnknownBorrower
	}
	return u.ID, err
}
