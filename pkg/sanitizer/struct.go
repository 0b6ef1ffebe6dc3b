package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotStructPointer is returned when SanitizeStruct receives anything but
// a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: target must be a non-nil pointer to struct")

var rules = map[string]func(string) string{
	"trim":       Trim,
	"collapse":   Collapse,
	"nfc":        NFC,
	"strip_html": StripHTML,
	"isbn":       ISBN,
}

// SanitizeStruct rewrites tagged string fields of v in place.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		tag := sf.Tag.Get("sanitize")
		if tag == "" || tag == "-" || !sf.IsExported() {
			continue
		}
		fns, err := parseRules(tag)
		if err != nil {
			return fmt.Errorf("sanitizer: field %s: %w", sf.Name, err)
		}
		applyRules(rv.Field(i), fns)
	}
	return nil
}

func parseRules(tag string) ([]func(string) string, error) {
	var fns []func(string) string
	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fn, ok := rules[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

func applyRules(fv reflect.Value, fns []func(string) string) {
	switch {
	case fv.Kind() == reflect.String:
		fv.SetString(apply(fv.String(), fns))
	case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.String:
		fv.Elem().SetString(apply(fv.Elem().String(), fns))
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
		for j := range fv.Len() {
			fv.Index(j).SetString(apply(fv.Index(j).String(), fns))
		}
	}
}

func apply(s string, fns []func(string) string) string {
	for _, fn := range fns {
		s = fn(s)
	}
	return s
}
