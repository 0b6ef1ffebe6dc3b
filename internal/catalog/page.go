package catalog

const (
	BooksPerPage   = 5
	AuthorsPerPage = 10
	LoansPerPage   = 10
)

// Page is one slice of an ordered listing. Number is 1-based.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}

func NewPage[T any](items []T, number, size, total int) Page[T] {
	return Page[T]{Items: items, Number: number, Size: size, Total: total}
}

// Offset is the number of rows before page number.
func Offset(number, size int) int {
	if number < 1 {
		return 0
	}
	return (number - 1) * size
}

// CheckPage rejects page numbers below 1 and, for non-empty lists, past
// the last page. An empty list only has page 1.
func CheckPage(number, size, total int) error {
	if number < 1 {
		return ErrInvalidPage
	}
	if number > LastPage(size, total) {
		return ErrInvalidPage
	}
	return nil
}

// LastPage is the number of the final page; 1 for an empty list.
func LastPage(size, total int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func (p Page[T]) Pages() int    { return LastPage(p.Size, p.Total) }
func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages() }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }
func (p Page[T]) Paginated() bool {
	return p.Pages() > 1
}
