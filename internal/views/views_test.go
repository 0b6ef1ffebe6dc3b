package views_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/internal/views"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func day(s string) *time.Time {
	d, err := catalog.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestLayout(t *testing.T) {
	t.Parallel()

	t.Run("anonymous gets a login link with next", func(t *testing.T) {
		t.Parallel()
		out := render(t, views.Home(views.Shell{Path: "/catalog/books/?page=2"}, catalog.Stats{}, 0))
		assert.Contains(t, out, `href="/accounts/login/?next=%2Fcatalog%2Fbooks%2F%3Fpage%3D2"`)
		assert.NotContains(t, out, "Logout")
		assert.NotContains(t, out, "All borrowed")
	})

	t.Run("member sees own loans only", func(t *testing.T) {
		t.Parallel()
		out := render(t, views.Home(views.Shell{Username: "alice"}, catalog.Stats{}, 0))
		assert.Contains(t, out, "User: alice")
		assert.Contains(t, out, `href="/catalog/mybooks/"`)
		assert.Contains(t, out, `action="/accounts/logout/"`)
		assert.NotContains(t, out, "All borrowed")
	})

	t.Run("librarian sees staff links", func(t *testing.T) {
		t.Parallel()
		out := render(t, views.Home(views.Shell{Username: "lib", Librarian: true}, catalog.Stats{}, 0))
		assert.Contains(t, out, `href="/catalog/borrowed/"`)
		assert.Contains(t, out, `href="/catalog/books/new"`)
	})

	t.Run("flash and title", func(t *testing.T) {
		t.Parallel()
		out := render(t, views.ErrorPage(views.Shell{Flash: "Saved <ok>"}, 404, ""))
		assert.Contains(t, out, "<title>Not Found | Local Library</title>")
		assert.Contains(t, out, `<p class="flash">Saved &lt;ok&gt;</p>`)
		assert.Contains(t, out, "404 Not Found")
	})
}

func TestHome(t *testing.T) {
	t.Parallel()

	st := catalog.Stats{Books: 7, Instances: 12, AvailableCopies: 4, Authors: 3, Genres: 5, Languages: 2}
	out := render(t, views.Home(views.Shell{}, st, 1))
	assert.Contains(t, out, "<strong>Books:</strong> 7")
	assert.Contains(t, out, "<strong>Copies available:</strong> 4")
	assert.Contains(t, out, "You have visited this page 1 time.")

	out = render(t, views.Home(views.Shell{}, st, 3))
	assert.Contains(t, out, "You have visited this page 3 times.")
}

func TestBookList(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		out := render(t, views.BookList(views.Shell{}, catalog.NewPage[catalog.Book](nil, 1, 5, 0)))
		assert.Contains(t, out, "There are no books in the library.")
		assert.NotContains(t, out, "pagination")
	})

	t.Run("middle page links both ways", func(t *testing.T) {
		t.Parallel()
		books := []catalog.Book{{ID: 9, Title: "Dune", Author: &catalog.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"}}}
		out := render(t, views.BookList(views.Shell{}, catalog.NewPage(books, 2, 5, 12)))
		assert.Contains(t, out, `<a href="/catalog/books/9">Dune</a> (Herbert Frank)`)
		assert.Contains(t, out, `href="/catalog/books/?page=1"`)
		assert.Contains(t, out, `href="/catalog/books/?page=3"`)
		assert.Contains(t, out, "Page 2 of 3.")
	})
}

func TestBookDetail(t *testing.T) {
	t.Parallel()

	today := *day("2026-03-10")
	d := catalog.BookDetail{
		Book: catalog.Book{
			ID: 3, Title: "Dune", ISBN: "9780441013593",
			Summary: "A **desert** planet.<script>alert(1)</script>",
			Genres:  []catalog.Genre{{ID: 1, Name: "Sci-Fi"}, {ID: 2, Name: "Adventure"}, {ID: 3, Name: "Epic"}, {ID: 4, Name: "Drama"}},
		},
		Copies: []catalog.BookInstance{
			{ID: "c1", Imprint: "Ace 1990", Status: catalog.StatusOnLoan, DueBack: day("2026-03-09")},
			{ID: "c2", Imprint: "Ace 2005", Status: catalog.StatusAvailable},
		},
	}

	out := render(t, views.BookDetail(views.Shell{}, d, today, false))
	assert.Contains(t, out, "<strong>desert</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Sci-Fi, Adventure, Epic</p>")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "2026-03-09 <span class=\"overdue\">(overdue)</span>")
	assert.NotContains(t, out, "Mark returned")
	assert.NotContains(t, out, "Update book")

	out = render(t, views.BookDetail(views.Shell{Username: "lib", Librarian: true}, d, today, true))
	assert.Contains(t, out, `action="/catalog/copies/c1/return"`)
	assert.Contains(t, out, `href="/catalog/copies/c2/lend"`)
	assert.Contains(t, out, `href="/catalog/books/3/edit"`)
}

func TestAuthorDetail(t *testing.T) {
	t.Parallel()

	d := catalog.AuthorDetail{
		Author: catalog.Author{ID: 4, FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: day("1929-10-21"), DateOfDeath: day("2018-01-22")},
		Books:  []catalog.Book{{ID: 8, Title: "The Dispossessed", Summary: "Anarres"}},
	}
	out := render(t, views.AuthorDetail(views.Shell{}, d, false))
	assert.Contains(t, out, "Author: Le Guin Ursula")
	assert.Contains(t, out, "1929-10-21 - 2018-01-22")
	assert.Contains(t, out, `<a href="/catalog/books/8">The Dispossessed</a>`)
	assert.NotContains(t, out, "Delete author")
}

func TestLoans(t *testing.T) {
	t.Parallel()

	today := *day("2026-03-10")
	bookID := int64(2)
	copies := []catalog.BookInstance{
		{ID: "a", BookID: &bookID, BookTitle: "Dune", Status: catalog.StatusOnLoan, DueBack: day("2026-03-01"),
			Borrower: &catalog.Borrower{Username: "alice", FirstName: "Alice", LastName: "Liddell"}},
		{ID: "b", BookID: &bookID, BookTitle: "Dune", Status: catalog.StatusOnLoan, DueBack: day("2026-03-20"),
			Borrower: &catalog.Borrower{Username: "bob"}},
	}

	out := render(t, views.MyBooks(views.Shell{Username: "alice"}, catalog.NewPage(copies[:1], 1, 10, 1), today))
	assert.Contains(t, out, `<li class="overdue">`)
	assert.NotContains(t, out, "Liddell")

	out = render(t, views.Borrowed(views.Shell{Username: "lib", Librarian: true}, catalog.NewPage(copies, 1, 10, 2), today))
	assert.Contains(t, out, "Alice Liddell")
	assert.Contains(t, out, "(2026-03-20) - bob")
	assert.Contains(t, out, `href="/catalog/copies/b/renew"`)

	out = render(t, views.Borrowed(views.Shell{}, catalog.NewPage[catalog.BookInstance](nil, 1, 10, 0), today))
	assert.Contains(t, out, "There are no books borrowed.")
}

func TestRenewForm(t *testing.T) {
	t.Parallel()

	bi := catalog.BookInstance{ID: "x1", BookTitle: "Dune", DueBack: day("2026-03-12")}
	form := requests.RenewBook{RenewalDate: *day("2026-03-31")}
	var errs validator.ValidationErrors
	errs.Add("renewal_date", catalog.ErrRenewalTooFar.Error())

	out := render(t, views.RenewForm(views.Shell{}, bi, form, errs))
	assert.Contains(t, out, `action="/catalog/copies/x1/renew"`)
	assert.Contains(t, out, `value="2026-03-31"`)
	assert.Contains(t, out, "Invalid date - renewal more than 4 weeks ahead")
	assert.Contains(t, out, "Enter a date between now and 4 weeks (default 3).")
}

func TestBookForm(t *testing.T) {
	t.Parallel()

	author := int64(2)
	form := requests.Book{Title: "Dune", AuthorID: &author, GenreIDs: []int64{5}}
	choices := views.BookChoices{
		Authors: []catalog.Author{{ID: 1, FirstName: "A", LastName: "One"}, {ID: 2, FirstName: "B", LastName: "Two"}},
		Genres:  []catalog.Genre{{ID: 5, Name: "Sci-Fi"}, {ID: 6, Name: "Poetry"}},
	}
	out := render(t, views.BookForm(views.Shell{}, "Create book", "/catalog/books/new", form, choices, nil))
	assert.Contains(t, out, `<option value="2" selected>Two B</option>`)
	assert.Contains(t, out, `<option value="1">One A</option>`)
	assert.Contains(t, out, `<select name="genre" id="id_genre" multiple>`)
	assert.Contains(t, out, `<option value="5" selected>Sci-Fi</option>`)
	assert.Contains(t, out, `<option value="6">Poetry</option>`)
}

func TestAuthorForm(t *testing.T) {
	t.Parallel()

	out := render(t, views.AuthorForm(views.Shell{}, "Create author", "/catalog/authors/new", requests.NewAuthor(), nil))
	assert.Contains(t, out, `name="date_of_death" id="id_date_of_death" value="2016-12-10"`)
	assert.Contains(t, out, `name="date_of_birth" id="id_date_of_birth" value=""`)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out := render(t, views.Markdown("Visit https://example.com and [click](javascript:alert(1))"))
	assert.Contains(t, out, `href="https://example.com"`)
	assert.NotContains(t, out, "javascript:")
}
