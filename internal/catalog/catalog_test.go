package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

func day(s string) time.Time {
	t, err := catalog.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestValidateRenewalDate(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{"today", day("2024-03-10"), nil},
		{"default three weeks", day("2024-03-31"), nil},
		{"last day of window", day("2024-04-07"), nil},
		{"yesterday", day("2024-03-09"), catalog.ErrRenewalInPast},
		{"one day too far", day("2024-04-08"), catalog.ErrRenewalTooFar},
		{"time of day ignored", time.Date(2024, 4, 7, 23, 59, 0, 0, time.UTC), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := catalog.ValidateRenewalDate(tt.date, today)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, "Invalid date - renewal in past", catalog.ErrRenewalInPast.Error())
	assert.Equal(t, "Invalid date - renewal more than 4 weeks ahead", catalog.ErrRenewalTooFar.Error())
}

func TestDefaultRenewalDate(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)
	got := catalog.DefaultRenewalDate(today)
	assert.Equal(t, day("2025-01-10"), got)
	assert.NoError(t, catalog.ValidateRenewalDate(got, today))
}

func TestIsOverdue(t *testing.T) {
	t.Parallel()

	today := day("2024-03-10")
	assert.True(t, catalog.BookInstance{DueBack: ptr(day("2024-03-09"))}.IsOverdue(today))
	assert.False(t, catalog.BookInstance{DueBack: ptr(day("2024-03-10"))}.IsOverdue(today))
	assert.False(t, catalog.BookInstance{DueBack: ptr(day("2024-03-11"))}.IsOverdue(today))
	assert.False(t, catalog.BookInstance{}.IsOverdue(today))
}

func TestDisplayHelpers(t *testing.T) {
	t.Parallel()

	t.Run("author", func(t *testing.T) {
		t.Parallel()
		a := catalog.Author{FirstName: "Ursula", LastName: "Le Guin"}
		assert.Equal(t, "Le Guin Ursula", a.String())
		assert.Empty(t, a.Lifespan())

		a.DateOfBirth = ptr(day("1929-10-21"))
		assert.Equal(t, "1929-10-21 - ", a.Lifespan())
		a.DateOfDeath = ptr(day("2018-01-22"))
		assert.Equal(t, "1929-10-21 - 2018-01-22", a.Lifespan())
	})

	t.Run("display genre", func(t *testing.T) {
		t.Parallel()
		b := catalog.Book{Genres: []catalog.Genre{
			{ID: 1, Name: "Fantasy"}, {ID: 2, Name: "Science Fiction"},
			{ID: 3, Name: "Poetry"}, {ID: 4, Name: "Essay"},
		}}
		assert.Equal(t, "Fantasy, Science Fiction, Poetry", b.DisplayGenre())
		assert.Equal(t, []int64{1, 2, 3, 4}, b.GenreIDs())
		assert.Empty(t, catalog.Book{}.DisplayGenre())
	})

	t.Run("book instance", func(t *testing.T) {
		t.Parallel()
		bi := catalog.BookInstance{ID: "6f1c", BookTitle: "Earthsea"}
		assert.Equal(t, "6f1c (Earthsea)", bi.String())
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Maintenance", catalog.DefaultStatus.Label())
		assert.Equal(t, "On loan", catalog.StatusOnLoan.Label())
		assert.Equal(t, "Available", catalog.StatusAvailable.Label())
		assert.Equal(t, "Reserved", catalog.StatusReserved.Label())
		assert.True(t, catalog.StatusReserved.Valid())
		assert.False(t, catalog.LoanStatus("x").Valid())
	})

	t.Run("borrower", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Ada Lovelace", catalog.Borrower{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
		assert.Equal(t, "ada", catalog.Borrower{Username: "ada"}.DisplayName())
	})
}

func TestPagination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, catalog.Offset(1, 5))
	assert.Equal(t, 10, catalog.Offset(3, 5))

	assert.Equal(t, 1, catalog.LastPage(5, 0))
	assert.Equal(t, 1, catalog.LastPage(5, 5))
	assert.Equal(t, 2, catalog.LastPage(5, 6))

	require.NoError(t, catalog.CheckPage(1, 5, 0))
	require.NoError(t, catalog.CheckPage(2, 5, 6))
	assert.ErrorIs(t, catalog.CheckPage(0, 5, 6), catalog.ErrInvalidPage)
	assert.ErrorIs(t, catalog.CheckPage(3, 5, 6), catalog.ErrInvalidPage)
	assert.ErrorIs(t, catalog.CheckPage(2, 5, 0), catalog.ErrInvalidPage)

	p := catalog.NewPage([]string{"f"}, 2, 5, 6)
	assert.Equal(t, 2, p.Pages())
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.True(t, p.Paginated())
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()
	perms := catalog.RolePermissions()
	assert.Empty(t, perms[catalog.RoleMember])
	assert.ElementsMatch(t, []string{catalog.PermCanMarkReturned, catalog.PermManageRecords}, perms[catalog.RoleLibrarian])
	assert.Equal(t, "Set book as returned", catalog.PermissionLabels[catalog.PermCanMarkReturned])
}
