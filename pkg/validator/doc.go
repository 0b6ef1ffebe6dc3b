// Package validator provides rule-based and tag-driven validation with
// field-keyed error collections suitable for rendering next to form inputs.
//
// Rules are plain values combined with Apply:
//
//	err := validator.Apply(
//		validator.NoError("renewal_date", checkWindow(date, today)),
//		validator.Custom("date_of_death", "Date of death cannot precede date of birth.", func() bool {
//			return died.IsZero() || !died.Before(born)
//		}),
//	)
//	if validator.IsValidationError(err) {
//		errs := validator.ExtractValidationErrors(err)
//		_ = errs.Get("renewal_date")
//	}
//
// Field rules are declared through the validate tag, using semicolon
// separated directives:
//
//	type BookForm struct {
//		Title string `form:"title" validate:"required;max:200"`
//	}
//
// Supported directives are required, min:N and max:N. For strings the bounds
// apply to the rune count, for slices to the number of items and for numbers
// to the value itself. Field names in errors come from the form tag, then the
// query tag, then the lowercased Go field name.
package validator
