// Package binder maps url-encoded request data onto tagged structs.
//
// Form reads the parsed request body (falling back to the query string for
// GET requests), Query reads only the URL query. Fields are matched by the
// form and query tags respectively:
//
//	type RenewForm struct {
//		DueBack time.Time `form:"renewal_date"`
//	}
//
// Supported field types are string, bool, every int and uint width,
// float32/64, time.Time (layout 2006-01-02), pointers to any of those and
// slices of strings or integers. Values that fail to parse are collected
// into validator.ValidationErrors so they can be shown next to the input;
// empty inputs leave the field at its zero value.
package binder
