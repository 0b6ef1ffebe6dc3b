package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var bookColumns = []any{
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.summary"), goqu.I("b.isbn"),
	goqu.I("a.id"), goqu.I("a.first_name"), goqu.I("a.last_name"),
	goqu.I("a.date_of_birth"), goqu.I("a.date_of_death"),
	goqu.I("l.id"), goqu.I("l.name"),
}

func booksFrom() *goqu.SelectDataset {
	return pg.From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		LeftJoin(goqu.T("languages").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("b.language_id"))))
}

func booksPageQuery(number int) *goqu.SelectDataset {
	return booksFrom().
		Select(bookColumns...).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc()).
		Limit(uint(catalog.BooksPerPage)).
		Offset(uint(catalog.Offset(number, catalog.BooksPerPage))).
		Prepared(true)
}

func scanBook(row pgx.CollectableRow) (catalog.Book, error) {
	var (
		b          catalog.Book
		authorID   *int64
		first      *string
		last       *string
		born, died *time.Time
		langID     *int64
		langName   *string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN,
		&authorID, &first, &last, &born, &died, &langID, &langName); err != nil {
		return b, err
	}
	if authorID != nil {
		b.Author = &catalog.Author{
			ID: *authorID, FirstName: deref(first), LastName: deref(last),
			DateOfBirth: born, DateOfDeath: died,
		}
	}
	if langID != nil {
		b.Language = &catalog.Language{ID: *langID, Name: deref(langName)}
	}
	return b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListBooks returns one page of books ordered by title.
func (s *Store) ListBooks(ctx context.Context, number int) (catalog.Page[catalog.Book], error) {
	total, err := s.count(ctx, pg.From("books"))
	if err != nil {
		return catalog.Page[catalog.Book]{}, err
	}
	if err := catalog.CheckPage(number, catalog.BooksPerPage, total); err != nil {
		return catalog.Page[catalog.Book]{}, err
	}
	rows, err := s.query(ctx, booksPageQuery(number))
	if err != nil {
		return catalog.Page[catalog.Book]{}, err
	}
	books, err := collect(rows, scanBook)
	if err != nil {
		return catalog.Page[catalog.Book]{}, err
	}
	return catalog.NewPage(books, number, catalog.BooksPerPage, total), nil
}

// GetBook loads a book with its author, language, genres and copies.
func (s *Store) GetBook(ctx context.Context, id int64) (catalog.BookDetail, error) {
	rows, err := s.query(ctx, booksFrom().Select(bookColumns...).Where(goqu.I("b.id").Eq(id)).Prepared(true))
	if err != nil {
		return catalog.BookDetail{}, err
	}
	book, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		return catalog.BookDetail{}, notFound(err)
	}

	if book.Genres, err = s.bookGenres(ctx, id); err != nil {
		return catalog.BookDetail{}, err
	}
	copies, err := s.listInstances(ctx, instancesFrom().Where(goqu.I("bi.book_id").Eq(id)), 0, 0)
	if err != nil {
		return catalog.BookDetail{}, err
	}
	return catalog.BookDetail{Book: book, Copies: copies}, nil
}

func (s *Store) bookGenres(ctx context.Context, bookID int64) ([]catalog.Genre, error) {
	rows, err := s.query(ctx, pg.From(goqu.T("genres").As("g")).
		Join(goqu.T("book_genres").As("bg"), goqu.On(goqu.I("bg.genre_id").Eq(goqu.I("g.id")))).
		Select(goqu.I("g.id"), goqu.I("g.name")).
		Where(goqu.I("bg.book_id").Eq(bookID)).
		Order(goqu.I("g.name").Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}
	return collect(rows, pgx.RowToStructByPos[catalog.Genre])
}

func bookRecord(in catalog.BookInput) goqu.Record {
	return goqu.Record{
		"title":       in.Title,
		"summary":     in.Summary,
		"isbn":        in.ISBN,
		"author_id":   in.AuthorID,
		"language_id": in.LanguageID,
	}
}

// CreateBook inserts a book and its genre links.
func (s *Store) CreateBook(ctx context.Context, in catalog.BookInput) (int64, error) {
	var id int64
	err := s.InTx(ctx, func(tx *Store) error {
		if err := tx.queryRow(ctx, pg.Insert("books").
			Rows(bookRecord(in)).
			Returning("id").
			Prepared(true), &id); err != nil {
			return err
		}
		return tx.setBookGenres(ctx, id, in.GenreIDs)
	})
	return id, err
}

// UpdateBook rewrites every field and replaces the genre set.
func (s *Store) UpdateBook(ctx context.Context, id int64, in catalog.BookInput) error {
	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.execOne(ctx, pg.Update("books").
			Set(bookRecord(in)).
			Where(goqu.C("id").Eq(id)).
			Prepared(true)); err != nil {
			return err
		}
		if _, err := tx.exec(ctx, pg.Delete("book_genres").
			Where(goqu.C("book_id").Eq(id)).
			Prepared(true)); err != nil {
			return err
		}
		return tx.setBookGenres(ctx, id, in.GenreIDs)
	})
}

func (s *Store) setBookGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]any, len(genreIDs))
	for i, gid := range genreIDs {
		rows[i] = goqu.Record{"book_id": bookID, "genre_id": gid}
	}
	_, err := s.exec(ctx, pg.Insert("book_genres").
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Prepared(true))
	return err
}

// DeleteBook removes a book. Its copies keep existing with no book.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	return s.execOne(ctx, pg.Delete("books").Where(goqu.C("id").Eq(id)).Prepared(true))
}
