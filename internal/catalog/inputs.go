package catalog

import "time"

// AuthorInput carries the writable fields of an author.
type AuthorInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
}

// Validate checks rules spanning fields; per-field limits live on forms.
func (in AuthorInput) Validate() error {
	if in.DateOfBirth != nil && in.DateOfDeath != nil && Day(*in.DateOfDeath).Before(Day(*in.DateOfBirth)) {
		return ErrDiedBeforeBorn
	}
	return nil
}

// BookInput carries the writable fields of a book. GenreIDs replaces the
// whole genre set on update.
type BookInput struct {
	Title      string
	Summary    string
	ISBN       string
	AuthorID   *int64
	LanguageID *int64
	GenreIDs   []int64
}

// InstanceInput describes a new copy of a book.
type InstanceInput struct {
	BookID     int64
	Imprint    string
	Status     LoanStatus
	DueBack    *time.Time
	BorrowerID *string
}

// Validate enforces that only copies on loan have a borrower.
func (in InstanceInput) Validate() error {
	if in.BorrowerID != nil && in.Status != StatusOnLoan {
		return ErrNotOnLoan
	}
	return nil
}
