package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var (
	ErrBuildQuery = errors.New("repository: failed to build query")
	ErrQuery      = errors.New("repository: query failed")
	ErrScan       = errors.New("repository: failed to scan row")
)

// notFound maps pgx's empty-result errors to catalog.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return errors.Join(ErrScan, err)
}

const foreignKeyViolation = "23503"

// choiceConstraints maps foreign keys filled from form selects to the
// field that chose the missing row.
var choiceConstraints = map[string]string{
	"books_author_id_fkey":      "author",
	"books_language_id_fkey":    "language",
	"book_genres_genre_id_fkey": "genre",
}

// queryFailed wraps a database error in ErrQuery, or reports a
// catalog.ChoiceError when a selected author, language or genre is gone.
func queryFailed(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		if field, ok := choiceConstraints[pgErr.ConstraintName]; ok {
			return &catalog.ChoiceError{Field: field}
		}
	}
	return errors.Join(ErrQuery, err)
}
