package validator

import (
	"errors"
	"strings"
)

// ValidationError describes a single failed rule for a field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is an ordered collection of field errors. It implements
// error so it can travel through regular error returns.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		if ve.Field == "" {
			parts = append(parts, ve.Message)
			continue
		}
		parts = append(parts, ve.Field+": "+ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Get returns all messages recorded for field, in insertion order.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, ve := range e {
		if ve.Field == field {
			msgs = append(msgs, ve.Message)
		}
	}
	return msgs
}

// First returns the first message for field or an empty string.
func (e ValidationErrors) First(field string) string {
	for _, ve := range e {
		if ve.Field == field {
			return ve.Message
		}
	}
	return ""
}

// Has reports whether field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the collection holds no errors.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Add appends an error for field.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// Merge returns a collection holding e followed by other.
func (e ValidationErrors) Merge(other ValidationErrors) ValidationErrors {
	if len(other) == 0 {
		return e
	}
	out := make(ValidationErrors, 0, len(e)+len(other))
	out = append(out, e...)
	return append(out, other...)
}

// IsValidationError reports whether err wraps ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors unwraps ValidationErrors from err.
// Returns nil when err carries none.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
