package catalog

import (
	"fmt"
	"strings"
	"time"
)

type Genre struct {
	ID   int64
	Name string
}

func (g Genre) String() string { return g.Name }

type Language struct {
	ID   int64
	Name string
}

func (l Language) String() string { return l.Name }

type Author struct {
	ID          int64
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
}

// String renders "<last name> <first name>".
func (a Author) String() string {
	return fmt.Sprintf("%s %s", a.LastName, a.FirstName)
}

// Lifespan renders the known dates, e.g. "1920-01-02 - 1992-04-06".
func (a Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	var b strings.Builder
	if a.DateOfBirth != nil {
		b.WriteString(FormatDate(*a.DateOfBirth))
	}
	b.WriteString(" - ")
	if a.DateOfDeath != nil {
		b.WriteString(FormatDate(*a.DateOfDeath))
	}
	return b.String()
}

// AuthorDetail is an author with their books ordered by title.
type AuthorDetail struct {
	Author
	Books []Book
}

type Book struct {
	ID       int64
	Title    string
	Summary  string
	ISBN     string
	Author   *Author
	Language *Language
	Genres   []Genre
}

func (b Book) String() string { return b.Title }

// DisplayGenre joins the names of the first three genres.
func (b Book) DisplayGenre() string {
	n := min(len(b.Genres), 3)
	names := make([]string, 0, n)
	for _, g := range b.Genres[:n] {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// GenreIDs lists the genre IDs, e.g. to pre-select a form's choices.
func (b Book) GenreIDs() []int64 {
	ids := make([]int64, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}

// BookDetail is a book with every copy of it.
type BookDetail struct {
	Book
	Copies []BookInstance
}

// Borrower is the part of a user shown next to a loan.
type Borrower struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// DisplayName prefers the full name and falls back to the username.
func (b Borrower) DisplayName() string {
	if full := strings.TrimSpace(b.FirstName + " " + b.LastName); full != "" {
		return full
	}
	return b.Username
}

// BookInstance is a physical copy of a book.
type BookInstance struct {
	ID        string
	BookID    *int64
	BookTitle string
	Imprint   string
	DueBack   *time.Time
	Status    LoanStatus
	Borrower  *Borrower
}

// String renders "<id> (<book title>)".
func (bi BookInstance) String() string {
	return fmt.Sprintf("%s (%s)", bi.ID, bi.BookTitle)
}

// IsOverdue reports whether the copy was due back before today.
func (bi BookInstance) IsOverdue(today time.Time) bool {
	return bi.DueBack != nil && Day(*bi.DueBack).Before(Day(today))
}

// Stats are the catalogue totals shown on the home page.
type Stats struct {
	Books           int
	Instances       int
	AvailableCopies int
	Authors         int
	Genres          int
	Languages       int
}
