package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

func statsQuery() *goqu.SelectDataset {
	countOf := func(table, alias string) *goqu.SelectDataset {
		return pg.From(table).Select(goqu.COUNT(goqu.Star())).As(alias)
	}
	return pg.Select(
		countOf("books", "books"),
		countOf("book_instances", "instances"),
		pg.From("book_instances").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("status").Eq(string(catalog.StatusAvailable))).
			As("available"),
		countOf("authors", "authors"),
		countOf("genres", "genres"),
		countOf("languages", "languages"),
	).Prepared(true)
}

// Stats counts the catalogue in one round trip.
func (s *Store) Stats(ctx context.Context) (catalog.Stats, error) {
	var st catalog.Stats
	err := s.queryRow(ctx, statsQuery(),
		&st.Books, &st.Instances, &st.AvailableCopies, &st.Authors, &st.Genres, &st.Languages)
	return st, err
}
