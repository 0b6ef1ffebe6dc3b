package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var (
	authorColumns = []any{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}
	authorsOrder  = []exp.OrderedExpression{goqu.C("last_name").Asc(), goqu.C("first_name").Asc(), goqu.C("id").Asc()}
)

func authorsPageQuery(number int) *goqu.SelectDataset {
	return pg.From("authors").
		Select(authorColumns...).
		Order(authorsOrder...).
		Limit(uint(catalog.AuthorsPerPage)).
		Offset(uint(catalog.Offset(number, catalog.AuthorsPerPage))).
		Prepared(true)
}

// ListAuthors returns one page of authors ordered by last name.
func (s *Store) ListAuthors(ctx context.Context, number int) (catalog.Page[catalog.Author], error) {
	total, err := s.count(ctx, pg.From("authors"))
	if err != nil {
		return catalog.Page[catalog.Author]{}, err
	}
	if err := catalog.CheckPage(number, catalog.AuthorsPerPage, total); err != nil {
		return catalog.Page[catalog.Author]{}, err
	}
	rows, err := s.query(ctx, authorsPageQuery(number))
	if err != nil {
		return catalog.Page[catalog.Author]{}, err
	}
	authors, err := collect(rows, pgx.RowToStructByPos[catalog.Author])
	if err != nil {
		return catalog.Page[catalog.Author]{}, err
	}
	return catalog.NewPage(authors, number, catalog.AuthorsPerPage, total), nil
}

// AllAuthors lists every author, for choice fields.
func (s *Store) AllAuthors(ctx context.Context) ([]catalog.Author, error) {
	rows, err := s.query(ctx, pg.From("authors").
		Select(authorColumns...).
		Order(authorsOrder...).
		Prepared(true))
	if err != nil {
		return nil, err
	}
	return collect(rows, pgx.RowToStructByPos[catalog.Author])
}

// GetAuthor loads an author with their books.
func (s *Store) GetAuthor(ctx context.Context, id int64) (catalog.AuthorDetail, error) {
	rows, err := s.query(ctx, pg.From("authors").
		Select(authorColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
	if err != nil {
		return catalog.AuthorDetail{}, err
	}
	author, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[catalog.Author])
	if err != nil {
		return catalog.AuthorDetail{}, notFound(err)
	}

	rows, err = s.query(ctx, booksFrom().
		Select(bookColumns...).
		Where(goqu.I("b.author_id").Eq(id)).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc()).
		Prepared(true))
	if err != nil {
		return catalog.AuthorDetail{}, err
	}
	books, err := collect(rows, scanBook)
	if err != nil {
		return catalog.AuthorDetail{}, err
	}
	return catalog.AuthorDetail{Author: author, Books: books}, nil
}

func authorRecord(in catalog.AuthorInput) goqu.Record {
	return goqu.Record{
		"first_name":    in.FirstName,
		"last_name":     in.LastName,
		"date_of_birth": in.DateOfBirth,
		"date_of_death": in.DateOfDeath,
	}
}

func (s *Store) CreateAuthor(ctx context.Context, in catalog.AuthorInput) (int64, error) {
	var id int64
	err := s.queryRow(ctx, pg.Insert("authors").
		Rows(authorRecord(in)).
		Returning("id").
		Prepared(true), &id)
	return id, err
}

func (s *Store) UpdateAuthor(ctx context.Context, id int64, in catalog.AuthorInput) error {
	return s.execOne(ctx, pg.Update("authors").
		Set(authorRecord(in)).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
}

// DeleteAuthor removes an author; their books keep existing with no author.
func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	return s.execOne(ctx, pg.Delete("authors").Where(goqu.C("id").Eq(id)).Prepared(true))
}
