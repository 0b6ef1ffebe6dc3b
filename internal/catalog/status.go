package catalog

// LoanStatus is the availability of a book copy, stored as one letter.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

// DefaultStatus is assigned to new copies.
const DefaultStatus = StatusMaintenance

// LoanStatuses lists every status in display order.
var LoanStatuses = []LoanStatus{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

func (s LoanStatus) Label() string {
	switch s {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	default:
		return string(s)
	}
}

func (s LoanStatus) Valid() bool {
	switch s {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return true
	}
	return false
}
