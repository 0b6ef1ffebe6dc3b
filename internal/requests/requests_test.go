package requests_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/internal/requests"
	"github.com/dmitrymomot/locallibrary/pkg/sanitizer"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestRenewBookValidate(t *testing.T) {
	t.Parallel()
	today := date(2024, 5, 1)

	assert.Empty(t, requests.RenewBook{RenewalDate: date(2024, 5, 22)}.Validate(today))

	errs := requests.RenewBook{RenewalDate: date(2024, 4, 30)}.Validate(today)
	assert.Equal(t, "Invalid date - renewal in past", errs.First("renewal_date"))

	errs = requests.RenewBook{RenewalDate: date(2024, 5, 30)}.Validate(today)
	assert.Equal(t, "Invalid date - renewal more than 4 weeks ahead", errs.First("renewal_date"))
}

func TestLendCopyValidate(t *testing.T) {
	t.Parallel()
	today := date(2024, 5, 1)
	assert.Empty(t, requests.LendCopy{Borrower: "ada", DueBack: today}.Validate(today))
	assert.True(t, requests.LendCopy{DueBack: date(2024, 7, 1)}.Validate(today).Has("due_back"))
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	blank := requests.NewAuthor()
	if assert.NotNil(t, blank.DateOfDeath) {
		assert.Equal(t, "2016-12-10", catalog.FormatDate(*blank.DateOfDeath))
	}

	born, died := date(1950, 1, 1), date(1940, 1, 1)
	errs := requests.Author{FirstName: "A", LastName: "B", DateOfBirth: &born, DateOfDeath: &died}.Validate()
	assert.True(t, errs.Has("date_of_death"))

	in := requests.AuthorFrom(catalog.Author{FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: &born}).Input()
	assert.Equal(t, "Le Guin", in.LastName)
	assert.Equal(t, &born, in.DateOfBirth)
	assert.Nil(t, in.DateOfDeath)
}

func TestAuthorNamesKeepTheirCase(t *testing.T) {
	t.Parallel()

	tests := []struct{ first, last, wantFirst, wantLast string }{
		{" Vincent ", "van  Gogh", "Vincent", "van Gogh"},
		{"Juan", " de la Cruz ", "Juan", "de la Cruz"},
		{"bell", "hooks", "bell", "hooks"},
		{"Jose\u0301", "Saramago", "Jos\u00e9", "Saramago"},
	}
	for _, tt := range tests {
		a := requests.Author{FirstName: tt.first, LastName: tt.last}
		require.NoError(t, sanitizer.SanitizeStruct(&a))
		assert.Equal(t, tt.wantFirst, a.FirstName)
		assert.Equal(t, tt.wantLast, a.LastName)
	}
}

func TestBookFrom(t *testing.T) {
	t.Parallel()

	b := catalog.Book{
		Title: "Earthsea", ISBN: "123",
		Author:   &catalog.Author{ID: 4},
		Language: &catalog.Language{ID: 2},
		Genres:   []catalog.Genre{{ID: 7}, {ID: 9}},
	}
	in := requests.BookFrom(b).Input()
	assert.Equal(t, int64(4), *in.AuthorID)
	assert.Equal(t, int64(2), *in.LanguageID)
	assert.Equal(t, []int64{7, 9}, in.GenreIDs)

	assert.Nil(t, requests.BookFrom(catalog.Book{}).AuthorID)
}
