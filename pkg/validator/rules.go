package validator

// Message templates shared by rules and struct tags.
const (
	MsgRequired  = "This field is required."
	MsgMinLength = "Ensure this value has at least %d characters."
	MsgMaxLength = "Ensure this value has at most %d characters."
	MsgMinItems  = "Select at least %d item(s)."
	MsgMaxItems  = "Select at most %d item(s)."
	MsgMin       = "Ensure this value is greater than or equal to %v."
	MsgMax       = "Ensure this value is less than or equal to %v."
)

// Rule is a single check bound to a field. Check returns true when the
// value is valid.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply evaluates rules in order and returns ValidationErrors holding every
// failed rule, or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if r.Check == nil || r.Check() {
			continue
		}
		errs = append(errs, r.Error)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func rule(field, msg string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Message: msg}}
}

// Custom builds a rule from an arbitrary check and message.
func Custom(field, message string, check func() bool) Rule {
	return rule(field, message, check)
}

// NoError fails when err is non-nil, using err's text as the message. It
// turns domain checks such as a date window into field errors.
func NoError(field string, err error) Rule {
	if err == nil {
		return Rule{}
	}
	return rule(field, err.Error(), func() bool { return false })
}
