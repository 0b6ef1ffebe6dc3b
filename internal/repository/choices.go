package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/pkg/cache"
)

const (
	genresKey    = "choices:genres"
	languagesKey = "choices:languages"
)

// ListGenres returns every genre by name, through the choice cache when
// one is configured.
func (s *Store) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	load := func(ctx context.Context) ([]catalog.Genre, error) {
		rows, err := s.query(ctx, pg.From("genres").
			Select("id", "name").
			Order(goqu.C("name").Asc(), goqu.C("id").Asc()).
			Prepared(true))
		if err != nil {
			return nil, err
		}
		return collect(rows, pgx.RowToStructByPos[catalog.Genre])
	}
	if s.genres == nil {
		return load(ctx)
	}
	return cache.GetOrSet(ctx, s.genres, genresKey, func(ctx context.Context) ([]catalog.Genre, time.Duration, error) {
		g, err := load(ctx)
		return g, s.choicesTTL, err
	})
}

// ListLanguages returns every language by name, cached like ListGenres.
func (s *Store) ListLanguages(ctx context.Context) ([]catalog.Language, error) {
	load := func(ctx context.Context) ([]catalog.Language, error) {
		rows, err := s.query(ctx, pg.From("languages").
			Select("id", "name").
			Order(goqu.C("name").Asc(), goqu.C("id").Asc()).
			Prepared(true))
		if err != nil {
			return nil, err
		}
		return collect(rows, pgx.RowToStructByPos[catalog.Language])
	}
	if s.languages == nil {
		return load(ctx)
	}
	return cache.GetOrSet(ctx, s.languages, languagesKey, func(ctx context.Context) ([]catalog.Language, time.Duration, error) {
		l, err := load(ctx)
		return l, s.choicesTTL, err
	})
}

func (s *Store) CreateGenre(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := s.queryRow(ctx, pg.Insert("genres").
		Rows(goqu.Record{"name": name}).
		Returning("id").
		Prepared(true), &id); err != nil {
		return 0, err
	}
	if s.genres != nil {
		_ = s.genres.Delete(ctx, genresKey)
	}
	return id, nil
}

func (s *Store) CreateLanguage(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := s.queryRow(ctx, pg.Insert("languages").
		Rows(goqu.Record{"name": name}).
		Returning("id").
		Prepared(true), &id); err != nil {
		return 0, err
	}
	if s.languages != nil {
		_ = s.languages.Delete(ctx, languagesKey)
	}
	return id, nil
}
