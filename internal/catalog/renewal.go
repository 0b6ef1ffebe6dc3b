package catalog

import "time"

const (
	// RenewalWindowDays is the furthest a due date may be pushed.
	RenewalWindowDays = 28
	// DefaultRenewalDays pre-fills the renewal form.
	DefaultRenewalDays = 21

	RenewalHelpText = "Enter a date between now and 4 weeks (default 3)."
)

// ValidateRenewalDate accepts date iff today <= date <= today+28 days,
// comparing calendar days.
func ValidateRenewalDate(date, today time.Time) error {
	d, t := Day(date), Day(today)
	if d.Before(t) {
		return ErrRenewalInPast
	}
	if d.After(AddDays(t, RenewalWindowDays)) {
		return ErrRenewalTooFar
	}
	return nil
}

func DefaultRenewalDate(today time.Time) time.Time {
	return AddDays(today, DefaultRenewalDays)
}
