// Package requests declares the forms posted by the catalogue pages. Tags
// drive binding (form), clean-up (sanitize) and field rules (validate).
package requests

import (
	"time"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

type RenewBook struct {
	RenewalDate time.Time `form:"renewal_date" validate:"required"`
}

// Validate applies the renewal window to a bound form.
func (r RenewBook) Validate(today time.Time) validator.ValidationErrors {
	return validator.ExtractValidationErrors(validator.Apply(
		validator.NoError("renewal_date", catalog.ValidateRenewalDate(r.RenewalDate, today)),
	))
}

type LendCopy struct {
	Borrower string    `form:"borrower" sanitize:"trim" validate:"required;max:150"`
	DueBack  time.Time `form:"due_back" validate:"required"`
}

func (r LendCopy) Validate(today time.Time) validator.ValidationErrors {
	return validator.ExtractValidationErrors(validator.Apply(
		validator.NoError("due_back", catalog.ValidateRenewalDate(r.DueBack, today)),
	))
}

type Author struct {
	FirstName   string     `form:"first_name" sanitize:"trim,collapse,nfc" validate:"required;max:100"`
	LastName    string     `form:"last_name" sanitize:"trim,collapse,nfc" validate:"required;max:100"`
	DateOfBirth *time.Time `form:"date_of_birth"`
	DateOfDeath *time.Time `form:"date_of_death"`
}

// AuthorDeathPlaceholder pre-fills the "Died" field of a new author.
var AuthorDeathPlaceholder = time.Date(2016, time.December, 10, 0, 0, 0, 0, time.UTC)

// NewAuthor is the blank create form.
func NewAuthor() Author {
	died := AuthorDeathPlaceholder
	return Author{DateOfDeath: &died}
}

func AuthorFrom(a catalog.Author) Author {
	return Author{FirstName: a.FirstName, LastName: a.LastName, DateOfBirth: a.DateOfBirth, DateOfDeath: a.DateOfDeath}
}

func (r Author) Input() catalog.AuthorInput {
	return catalog.AuthorInput{
		FirstName: r.FirstName, LastName: r.LastName,
		DateOfBirth: r.DateOfBirth, DateOfDeath: r.DateOfDeath,
	}
}

// Validate checks the date order rule after field rules passed.
func (r Author) Validate() validator.ValidationErrors {
	return validator.ExtractValidationErrors(validator.Apply(
		validator.Custom("date_of_death", "Date of death cannot precede date of birth.", func() bool {
			return r.Input().Validate() == nil
		}),
	))
}

type Book struct {
	Title      string  `form:"title" sanitize:"trim,collapse,nfc" validate:"required;max:200"`
	Summary    string  `form:"summary" sanitize:"trim" validate:"required;max:1000"`
	ISBN       string  `form:"isbn" sanitize:"isbn" validate:"required;max:13"`
	AuthorID   *int64  `form:"author" validate:"required"`
	LanguageID *int64  `form:"language"`
	GenreIDs   []int64 `form:"genre" validate:"required"`
}

func BookFrom(b catalog.Book) Book {
	r := Book{Title: b.Title, Summary: b.Summary, ISBN: b.ISBN, GenreIDs: b.GenreIDs()}
	if b.Author != nil {
		id := b.Author.ID
		r.AuthorID = &id
	}
	if b.Language != nil {
		id := b.Language.ID
		r.LanguageID = &id
	}
	return r
}

func (r Book) Input() catalog.BookInput {
	return catalog.BookInput{
		Title: r.Title, Summary: r.Summary, ISBN: r.ISBN,
		AuthorID: r.AuthorID, LanguageID: r.LanguageID, GenreIDs: r.GenreIDs,
	}
}

type Login struct {
	Username string `form:"username" sanitize:"trim" validate:"required;max:150"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}
