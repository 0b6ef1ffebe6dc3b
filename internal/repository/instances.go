package repository

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/locallibrary/internal/catalog"
)

var instanceColumns = []any{
	goqu.I("bi.id"), goqu.I("bi.book_id"), goqu.COALESCE(goqu.I("b.title"), "").As("title"),
	goqu.I("bi.imprint"), goqu.I("bi.due_back"), goqu.I("bi.status"),
	goqu.I("u.id"), goqu.I("u.username"), goqu.I("u.email"), goqu.I("u.first_name"), goqu.I("u.last_name"),
}

func instancesFrom() *goqu.SelectDataset {
	return pg.From(goqu.T("book_instances").As("bi")).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("bi.book_id")))).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("bi.borrower_id"))))
}

func scanInstance(row pgx.CollectableRow) (catalog.BookInstance, error) {
	var (
		bi                     catalog.BookInstance
		status                 string
		userID, username       *string
		email, first, lastName *string
	)
	if err := row.Scan(&bi.ID, &bi.BookID, &bi.BookTitle, &bi.Imprint, &bi.DueBack, &status,
		&userID, &username, &email, &first, &lastName); err != nil {
		return bi, err
	}
	bi.Status = catalog.LoanStatus(status)
	if userID != nil {
		bi.Borrower = &catalog.Borrower{
			ID: *userID, Username: deref(username), Email: deref(email),
			FirstName: deref(first), LastName: deref(lastName),
		}
	}
	return bi, nil
}

// instancesQuery orders by due date with undated copies last. A zero
// limit returns every row.
func instancesQuery(base *goqu.SelectDataset, limit, offset int) *goqu.SelectDataset {
	q := base.Select(instanceColumns...).
		Order(goqu.I("bi.due_back").Asc().NullsLast(), goqu.I("bi.id").Asc())
	if limit > 0 {
		q = q.Limit(uint(limit)).Offset(uint(offset))
	}
	return q.Prepared(true)
}

func (s *Store) listInstances(ctx context.Context, base *goqu.SelectDataset, limit, offset int) ([]catalog.BookInstance, error) {
	rows, err := s.query(ctx, instancesQuery(base, limit, offset))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInstance)
}

func (s *Store) pageInstances(ctx context.Context, where goqu.Ex, number int) (catalog.Page[catalog.BookInstance], error) {
	total, err := s.count(ctx, pg.From(goqu.T("book_instances").As("bi")).Where(where))
	if err != nil {
		return catalog.Page[catalog.BookInstance]{}, err
	}
	if err := catalog.CheckPage(number, catalog.LoansPerPage, total); err != nil {
		return catalog.Page[catalog.BookInstance]{}, err
	}
	items, err := s.listInstances(ctx, instancesFrom().Where(where),
		catalog.LoansPerPage, catalog.Offset(number, catalog.LoansPerPage))
	if err != nil {
		return catalog.Page[catalog.BookInstance]{}, err
	}
	return catalog.NewPage(items, number, catalog.LoansPerPage, total), nil
}

// ListBorrowedBy pages the copies userID currently has on loan.
func (s *Store) ListBorrowedBy(ctx context.Context, userID string, number int) (catalog.Page[catalog.BookInstance], error) {
	return s.pageInstances(ctx, goqu.Ex{
		"bi.borrower_id": userID,
		"bi.status":      string(catalog.StatusOnLoan),
	}, number)
}

// ListOnLoan pages every copy on loan.
func (s *Store) ListOnLoan(ctx context.Context, number int) (catalog.Page[catalog.BookInstance], error) {
	return s.pageInstances(ctx, goqu.Ex{"bi.status": string(catalog.StatusOnLoan)}, number)
}

// ListOverdue returns copies on loan due before today whose borrower has
// an e-mail address.
func (s *Store) ListOverdue(ctx context.Context, today time.Time) ([]catalog.BookInstance, error) {
	return s.listInstances(ctx, instancesFrom().Where(
		goqu.I("bi.status").Eq(string(catalog.StatusOnLoan)),
		goqu.I("bi.due_back").Lt(catalog.Day(today)),
		goqu.I("u.email").Neq(""),
	), 0, 0)
}

// checkInstanceID rejects IDs that are not UUIDs before they reach the
// database, which would answer with a cast error.
func checkInstanceID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, id string) (catalog.BookInstance, error) {
	if err := checkInstanceID(id); err != nil {
		return catalog.BookInstance{}, err
	}
	rows, err := s.query(ctx, instancesQuery(instancesFrom().Where(goqu.I("bi.id").Eq(id)), 0, 0))
	if err != nil {
		return catalog.BookInstance{}, err
	}
	bi, err := pgx.CollectExactlyOneRow(rows, scanInstance)
	if err != nil {
		return catalog.BookInstance{}, notFound(err)
	}
	return bi, nil
}

// UpdateDueBack changes the due date of one copy and nothing else.
func (s *Store) UpdateDueBack(ctx context.Context, id string, dueBack time.Time) error {
	if err := checkInstanceID(id); err != nil {
		return err
	}
	return s.execOne(ctx, pg.Update("book_instances").
		Set(goqu.Record{"due_back": catalog.Day(dueBack)}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
}

// Lend puts a copy on loan to borrowerID until dueBack. Copies already on
// loan are rejected with catalog.ErrNotLendable.
func (s *Store) Lend(ctx context.Context, id, borrowerID string, dueBack time.Time) error {
	if err := checkInstanceID(id); err != nil {
		return err
	}
	err := s.execOne(ctx, pg.Update("book_instances").
		Set(goqu.Record{
			"status":      string(catalog.StatusOnLoan),
			"borrower_id": borrowerID,
			"due_back":    catalog.Day(dueBack),
		}).
		Where(goqu.C("id").Eq(id), goqu.C("status").Neq(string(catalog.StatusOnLoan))).
		Prepared(true))
	if errors.Is(err, catalog.ErrNotFound) {
		return s.explainMiss(ctx, id, catalog.ErrNotLendable)
	}
	return err
}

// Return marks a copy on loan as available and clears its borrower and
// due date.
func (s *Store) Return(ctx context.Context, id string) error {
	if err := checkInstanceID(id); err != nil {
		return err
	}
	err := s.execOne(ctx, pg.Update("book_instances").
		Set(goqu.Record{
			"status":      string(catalog.StatusAvailable),
			"borrower_id": nil,
			"due_back":    nil,
		}).
		Where(goqu.C("id").Eq(id), goqu.C("status").Eq(string(catalog.StatusOnLoan))).
		Prepared(true))
	if errors.Is(err, catalog.ErrNotFound) {
		return s.explainMiss(ctx, id, catalog.ErrNotOnLoan)
	}
	return err
}

// explainMiss tells an unknown copy apart from one in the wrong state.
func (s *Store) explainMiss(ctx context.Context, id string, stateErr error) error {
	if _, err := s.GetInstance(ctx, id); err != nil {
		return err
	}
	return stateErr
}

// CreateInstance adds a copy of a book and returns its generated ID.
func (s *Store) CreateInstance(ctx context.Context, in catalog.InstanceInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	status := in.Status
	if status == "" {
		status = catalog.DefaultStatus
	}
	var dueBack *time.Time
	if in.DueBack != nil {
		d := catalog.Day(*in.DueBack)
		dueBack = &d
	}
	var id string
	err := s.queryRow(ctx, pg.Insert("book_instances").
		Rows(goqu.Record{
			"book_id":     in.BookID,
			"imprint":     in.Imprint,
			"status":      string(status),
			"due_back":    dueBack,
			"borrower_id": in.BorrowerID,
		}).
		Returning("id").
		Prepared(true), &id)
	return id, err
}
