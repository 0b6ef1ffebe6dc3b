package catalog

import "errors"

var (
	ErrNotFound        = errors.New("catalog: not found")
	ErrInvalidPage     = errors.New("catalog: invalid page")
	ErrRenewalInPast   = errors.New("Invalid date - renewal in past")
	ErrRenewalTooFar   = errors.New("Invalid date - renewal more than 4 weeks ahead")
	ErrDiedBeforeBorn  = errors.New("catalog: date of death precedes date of birth")
	ErrUnknownBorrower = errors.New("catalog: unknown borrower")
	ErrNotOnLoan       = errors.New("catalog: copy is not on loan")
	ErrNotLendable     = errors.New("catalog: copy is already on loan")
	ErrUnknownChoice   = errors.New("catalog: selected record does not exist")
)

// ChoiceError reports a referenced author, language or genre that does not
// exist, typically deleted while the form was open. It matches
// ErrUnknownChoice.
type ChoiceError struct {
	Field string
}

func (e *ChoiceError) Error() string {
	return "catalog: unknown " + e.Field
}

func (e *ChoiceError) Is(target error) bool {
	return target == ErrUnknownChoice
}
