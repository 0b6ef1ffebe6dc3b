package handlers_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/locallibrary/internal/accounts"
	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

const (
	copyOnLoan    = "6f1c7a52-5c2e-4b8e-9d4e-0b1f3c2d4e5a"
	copyAvailable = "9a2b3c4d-1e2f-4a5b-8c6d-7e8f9a0b1c2d"
	copyMissing   = "00000000-0000-4000-8000-000000000000"
)

// fakeStore keeps the catalogue in maps and records what changed.
type fakeStore struct {
	mu sync.Mutex

	stats   catalog.Stats
	books   map[int64]catalog.BookDetail
	authors map[int64]catalog.AuthorDetail
	copies  map[string]catalog.BookInstance
	users   map[string]string
	nextID  int64

	borrowedBy string
	deleted    []int64
	bookInputs []catalog.BookInput
}

func newFakeStore() *fakeStore {
	bookID := int64(1)
	due := day("2026-03-12")
	borrower := &catalog.Borrower{ID: "user-member", Username: "member", FirstName: "Mary", LastName: "Reader"}
	return &fakeStore{
		stats: catalog.Stats{Books: 1, Instances: 2, AvailableCopies: 1, Authors: 1, Genres: 2, Languages: 1},
		books: map[int64]catalog.BookDetail{
			1: {Book: catalog.Book{ID: 1, Title: "Dune", Summary: "Spice.", ISBN: "9780441013593",
				Author: &catalog.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"},
				Genres: []catalog.Genre{{ID: 1, Name: "Sci-Fi"}}}},
		},
		authors: map[int64]catalog.AuthorDetail{
			1: {Author: catalog.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"}},
		},
		copies: map[string]catalog.BookInstance{
			copyOnLoan: {ID: copyOnLoan, BookID: &bookID, BookTitle: "Dune", Imprint: "Ace",
				Status: catalog.StatusOnLoan, DueBack: &due, Borrower: borrower},
			copyAvailable: {ID: copyAvailable, BookID: &bookID, BookTitle: "Dune", Imprint: "Ace",
				Status: catalog.StatusAvailable},
		},
		users:  map[string]string{"member": "user-member", "librarian": "user-librarian"},
		nextID: 100,
	}
}

func day(s string) time.Time {
	d, err := catalog.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func onePage[T any](items []T, number, size int) (catalog.Page[T], error) {
	if err := catalog.CheckPage(number, size, len(items)); err != nil {
		return catalog.Page[T]{}, err
	}
	return catalog.NewPage(items, number, size, len(items)), nil
}

func (f *fakeStore) Stats(context.Context) (catalog.Stats, error) { return f.stats, nil }

func (f *fakeStore) ListBooks(_ context.Context, number int) (catalog.Page[catalog.Book], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []catalog.Book
	for _, id := range slices.Sorted(maps.Keys(f.books)) {
		books = append(books, f.books[id].Book)
	}
	return onePage(books, number, catalog.BooksPerPage)
}

func (f *fakeStore) GetBook(_ context.Context, id int64) (catalog.BookDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return catalog.BookDetail{}, catalog.ErrNotFound
	}
	for _, bi := range f.copies {
		if bi.BookID != nil && *bi.BookID == id {
			b.Copies = append(b.Copies, bi)
		}
	}
	return b, nil
}

func (f *fakeStore) ListAuthors(_ context.Context, number int) (catalog.Page[catalog.Author], error) {
	all, _ := f.AllAuthors(context.Background())
	return onePage(all, number, catalog.AuthorsPerPage)
}

func (f *fakeStore) AllAuthors(context.Context) ([]catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Author
	for _, id := range slices.Sorted(maps.Keys(f.authors)) {
		out = append(out, f.authors[id].Author)
	}
	return out, nil
}

func (f *fakeStore) GetAuthor(_ context.Context, id int64) (catalog.AuthorDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return catalog.AuthorDetail{}, catalog.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) CreateAuthor(_ context.Context, in catalog.AuthorInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.authors[f.nextID] = catalog.AuthorDetail{Author: catalog.Author{
		ID: f.nextID, FirstName: in.FirstName, LastName: in.LastName,
		DateOfBirth: in.DateOfBirth, DateOfDeath: in.DateOfDeath,
	}}
	return f.nextID, nil
}

func (f *fakeStore) UpdateAuthor(_ context.Context, id int64, in catalog.AuthorInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return catalog.ErrNotFound
	}
	a.FirstName, a.LastName = in.FirstName, in.LastName
	a.DateOfBirth, a.DateOfDeath = in.DateOfBirth, in.DateOfDeath
	f.authors[id] = a
	return nil
}

func (f *fakeStore) DeleteAuthor(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authors[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.authors, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListGenres(context.Context) ([]catalog.Genre, error) {
	return []catalog.Genre{{ID: 1, Name: "Sci-Fi"}, {ID: 2, Name: "Poetry"}}, nil
}

func (f *fakeStore) ListLanguages(context.Context) ([]catalog.Language, error) {
	return []catalog.Language{{ID: 1, Name: "English"}}, nil
}

// missingChoice mimics the foreign keys on books and book_genres.
func (f *fakeStore) missingChoice(in catalog.BookInput) error {
	if in.AuthorID != nil {
		if _, ok := f.authors[*in.AuthorID]; !ok {
			return &catalog.ChoiceError{Field: "author"}
		}
	}
	if in.LanguageID != nil && *in.LanguageID != 1 {
		return &catalog.ChoiceError{Field: "language"}
	}
	for _, id := range in.GenreIDs {
		if id != 1 && id != 2 {
			return &catalog.ChoiceError{Field: "genre"}
		}
	}
	return nil
}

func (f *fakeStore) CreateBook(_ context.Context, in catalog.BookInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.missingChoice(in); err != nil {
		return 0, err
	}
	f.nextID++
	f.books[f.nextID] = catalog.BookDetail{Book: catalog.Book{ID: f.nextID, Title: in.Title, Summary: in.Summary, ISBN: in.ISBN}}
	f.bookInputs = append(f.bookInputs, in)
	return f.nextID, nil
}

func (f *fakeStore) UpdateBook(_ context.Context, id int64, in catalog.BookInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if err := f.missingChoice(in); err != nil {
		return err
	}
	b.Title, b.Summary, b.ISBN = in.Title, in.Summary, in.ISBN
	f.books[id] = b
	f.bookInputs = append(f.bookInputs, in)
	return nil
}

func (f *fakeStore) DeleteBook(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.books, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) onLoan(match func(catalog.BookInstance) bool) []catalog.BookInstance {
	var out []catalog.BookInstance
	for _, id := range slices.Sorted(maps.Keys(f.copies)) {
		bi := f.copies[id]
		if bi.Status == catalog.StatusOnLoan && match(bi) {
			out = append(out, bi)
		}
	}
	return out
}

func (f *fakeStore) ListBorrowedBy(_ context.Context, userID string, number int) (catalog.Page[catalog.BookInstance], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.borrowedBy = userID
	items := f.onLoan(func(bi catalog.BookInstance) bool {
		return bi.Borrower != nil && bi.Borrower.ID == userID
	})
	return onePage(items, number, catalog.LoansPerPage)
}

func (f *fakeStore) ListOnLoan(_ context.Context, number int) (catalog.Page[catalog.BookInstance], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return onePage(f.onLoan(func(catalog.BookInstance) bool { return true }), number, catalog.LoansPerPage)
}

func (f *fakeStore) GetInstance(_ context.Context, id string) (catalog.BookInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bi, ok := f.copies[id]
	if !ok {
		return catalog.BookInstance{}, catalog.ErrNotFound
	}
	return bi, nil
}

func (f *fakeStore) UpdateDueBack(_ context.Context, id string, dueBack time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bi, ok := f.copies[id]
	if !ok {
		return catalog.ErrNotFound
	}
	bi.DueBack = &dueBack
	f.copies[id] = bi
	return nil
}

func (f *fakeStore) Lend(_ context.Context, id, borrowerID string, dueBack time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bi, ok := f.copies[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if bi.Status == catalog.StatusOnLoan {
		return catalog.ErrNotLendable
	}
	bi.Status = catalog.StatusOnLoan
	bi.DueBack = &dueBack
	bi.Borrower = &catalog.Borrower{ID: borrowerID}
	f.copies[id] = bi
	return nil
}

func (f *fakeStore) Return(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bi, ok := f.copies[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if bi.Status != catalog.StatusOnLoan {
		return catalog.ErrNotOnLoan
	}
	bi.Status = catalog.StatusAvailable
	bi.DueBack, bi.Borrower = nil, nil
	f.copies[id] = bi
	return nil
}

func (f *fakeStore) BorrowerID(_ context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.users[username]
	if !ok {
		return "", catalog.ErrUnknownBorrower
	}
	return id, nil
}

func (f *fakeStore) copy(id string) catalog.BookInstance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies[id]
}

// fakeUsers backs accounts.Service in sign-in tests.
type fakeUsers map[string]accounts.User

func (f fakeUsers) UserByUsername(_ context.Context, username string) (accounts.User, error) {
	u, ok := f[username]
	if !ok {
		return accounts.User{}, accounts.ErrUserNotFound
	}
	return u, nil
}

func (f fakeUsers) UserByID(_ context.Context, id string) (accounts.User, error) {
	for _, u := range f {
		if u.ID == id {
			return u, nil
		}
	}
	return accounts.User{}, accounts.ErrUserNotFound
}
