package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var (
	errUnknownAuthor   = errors.New("seed: unknown author key")
	errUnknownGenre    = errors.New("seed: unknown genre")
	errUnknownLanguage = errors.New("seed: unknown language")
	errUnknownBorrower = errors.New("seed: unknown borrower")
	errInvalidStatus   = errors.New("seed: invalid copy status")
)

type fixtures struct {
	Users     []userFixture   `yaml:"users"`
	Genres    []string        `yaml:"genres"`
	Languages []string        `yaml:"languages"`
	Authors   []authorFixture `yaml:"authors"`
	Books     []bookFixture   `yaml:"books"`
}

type userFixture struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
}

type authorFixture struct {
	// Books refer to authors by key.
	Key       string `yaml:"key"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Born      string `yaml:"born"`
	Died      string `yaml:"died"`
}

type bookFixture struct {
	Title    string        `yaml:"title"`
	Summary  string        `yaml:"summary"`
	ISBN     string        `yaml:"isbn"`
	Author   string        `yaml:"author"`
	Language string        `yaml:"language"`
	Genres   []string      `yaml:"genres"`
	Copies   []copyFixture `yaml:"copies"`
}

type copyFixture struct {
	Imprint  string `yaml:"imprint"`
	Status   string `yaml:"status"`
	DueBack  string `yaml:"due_back"`
	Borrower string `yaml:"borrower"`
}

// seeder is the write side of repository.Store.
type seeder interface {
	CreateUser(ctx context.Context, u accounts.User) (string, error)
	CreateGenre(ctx context.Context, name string) (int64, error)
	CreateLanguage(ctx context.Context, name string) (int64, error)
	CreateAuthor(ctx context.Context, in catalog.AuthorInput) (int64, error)
	CreateBook(ctx context.Context, in catalog.BookInput) (int64, error)
	CreateInstance(ctx context.Context, in catalog.InstanceInput) (string, error)
}

func parseFixtures(r io.Reader) (fixtures, error) {
	var f fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fixtures{}, fmt.Errorf("seed: decode fixtures: %w", err)
	}
	return f, nil
}

type seedIDs struct {
	users     map[string]string
	genres    map[string]int64
	languages map[string]int64
	authors   map[string]int64
}

// load inserts f in dependency order: users, genres, languages, authors,
// then books with their copies.
func (f fixtures) load(ctx context.Context, s seeder, hash func(string) (string, error)) error {
	ids := seedIDs{
		users:     make(map[string]string, len(f.Users)),
		genres:    make(map[string]int64, len(f.Genres)),
		languages: make(map[string]int64, len(f.Languages)),
		authors:   make(map[string]int64, len(f.Authors)),
	}

	for _, u := range f.Users {
		if u.Role == "" {
			u.Role = catalog.RoleMember
		}
		if !accounts.ValidRole(u.Role) {
			return fmt.Errorf("user %q: %w", u.Username, accounts.ErrInvalidRole)
		}
		h, err := hash(u.Password)
		if err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}
		id, err := s.CreateUser(ctx, accounts.User{
			Username:     u.Username,
			Email:        u.Email,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			PasswordHash: h,
			Role:         u.Role,
		})
		if err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}
		ids.users[u.Username] = id
	}

	for _, name := range f.Genres {
		id, err := s.CreateGenre(ctx, name)
		if err != nil {
			return fmt.Errorf("genre %q: %w", name, err)
		}
		ids.genres[name] = id
	}
	for _, name := range f.Languages {
		id, err := s.CreateLanguage(ctx, name)
		if err != nil {
			return fmt.Errorf("language %q: %w", name, err)
		}
		ids.languages[name] = id
	}

	for _, a := range f.Authors {
		in, err := a.input()
		if err != nil {
			return fmt.Errorf("author %q: %w", a.Key, err)
		}
		id, err := s.CreateAuthor(ctx, in)
		if err != nil {
			return fmt.Errorf("author %q: %w", a.Key, err)
		}
		ids.authors[a.Key] = id
	}

	for _, b := range f.Books {
		if err := b.load(ctx, s, ids); err != nil {
			return fmt.Errorf("book %q: %w", b.Title, err)
		}
	}
	return nil
}

func (a authorFixture) input() (catalog.AuthorInput, error) {
	in := catalog.AuthorInput{FirstName: a.FirstName, LastName: a.LastName}
	var err error
	if in.DateOfBirth, err = optionalDate(a.Born); err != nil {
		return in, err
	}
	if in.DateOfDeath, err = optionalDate(a.Died); err != nil {
		return in, err
	}
	return in, in.Validate()
}

func (b bookFixture) load(ctx context.Context, s seeder, ids seedIDs) error {
	in := catalog.BookInput{Title: b.Title, Summary: b.Summary, ISBN: b.ISBN}
	if b.Author != "" {
		id, ok := ids.authors[b.Author]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownAuthor, b.Author)
		}
		in.AuthorID = &id
	}
	if b.Language != "" {
		id, ok := ids.languages[b.Language]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownLanguage, b.Language)
		}
		in.LanguageID = &id
	}
	for _, g := range b.Genres {
		id, ok := ids.genres[g]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownGenre, g)
		}
		in.GenreIDs = append(in.GenreIDs, id)
	}

	bookID, err := s.CreateBook(ctx, in)
	if err != nil {
		return err
	}
	for i, c := range b.Copies {
		ci, err := c.input(bookID, ids)
		if err != nil {
			return fmt.Errorf("copy %d: %w", i+1, err)
		}
		if _, err := s.CreateInstance(ctx, ci); err != nil {
			return fmt.Errorf("copy %d: %w", i+1, err)
		}
	}
	return nil
}

func (c copyFixture) input(bookID int64, ids seedIDs) (catalog.InstanceInput, error) {
	in := catalog.InstanceInput{BookID: bookID, Imprint: c.Imprint, Status: catalog.LoanStatus(c.Status)}
	if c.Borrower != "" {
		id, ok := ids.users[c.Borrower]
		if !ok {
			return in, fmt.Errorf("%w: %s", errUnknownBorrower, c.Borrower)
		}
		in.BorrowerID = &id
		if in.Status == "" {
			in.Status = catalog.StatusOnLoan
		}
	}
	if in.Status != "" && !in.Status.Valid() {
		return in, fmt.Errorf("%w: %q", errInvalidStatus, c.Status)
	}
	due, err := optionalDate(c.DueBack)
	if err != nil {
		return in, err
	}
	in.DueBack = due
	return in, in.Validate()
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := catalog.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
