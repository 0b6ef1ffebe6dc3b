// Package sanitizer normalizes user input before validation.
//
// HTML helpers are backed by bluemonday policies: StripHTML removes every
// tag, SanitizeHTML keeps a small set of formatting elements suitable for
// rendered markdown.
//
// SanitizeStruct applies comma separated rules from the sanitize tag to the
// string fields of a struct (and to []string fields element-wise):
//
//	type AuthorForm struct {
//		FirstName string `form:"first_name" sanitize:"trim,collapse,nfc"`
//		ISBN      string `form:"isbn" sanitize:"isbn"`
//	}
//
// Available rules: trim, collapse, nfc, strip_html and isbn. None of them
// change letter case.
package sanitizer
