package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotStruct is returned when ValidateStruct receives anything other than
// a struct or a pointer to one.
var ErrNotStruct = errors.New("validator: target must be a struct or pointer to struct")

var timeType = reflect.TypeFor[time.Time]()

type directive struct {
	name string
	arg  float64
}

// ValidateStruct applies validate tags on the exported fields of v.
// It returns ValidationErrors when any directive fails, ErrNotStruct for
// unsupported targets and a descriptive error for malformed tags.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrNotStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ErrNotStruct
	}

	var errs ValidationErrors
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}
		dirs, err := parseDirectives(tag)
		if err != nil {
			return fmt.Errorf("validator: field %s: %w", sf.Name, err)
		}
		name := FieldName(sf)
		for _, msg := range checkField(rv.Field(i), dirs) {
			errs.Add(name, msg)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FieldName resolves the external name of a struct field.
func FieldName(sf reflect.StructField) string {
	for _, key := range []string{"form", "query"} {
		if tag, ok := sf.Tag.Lookup(key); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" && name != "-" {
				return name
			}
		}
	}
	return strings.ToLower(sf.Name)
}

func parseDirectives(tag string) ([]directive, error) {
	var dirs []directive
	for part := range strings.SplitSeq(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(part, ":")
		d := directive{name: name}
		switch name {
		case "required":
		case "min", "max":
			if !hasArg {
				return nil, fmt.Errorf("directive %q needs an argument", name)
			}
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("directive %q: %w", name, err)
			}
			d.arg = n
		default:
			return nil, fmt.Errorf("unknown directive %q", name)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func checkField(fv reflect.Value, dirs []directive) []string {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			for _, d := range dirs {
				if d.name == "required" {
					return []string{MsgRequired}
				}
			}
			return nil
		}
		fv = fv.Elem()
	}

	var msgs []string
	for _, d := range dirs {
		switch d.name {
		case "required":
			if isZero(fv) {
				// Bounds are meaningless on a missing value.
				return []string{MsgRequired}
			}
		case "min":
			if msg, ok := checkBound(fv, d.arg, true); !ok {
				msgs = append(msgs, msg)
			}
		case "max":
			if msg, ok := checkBound(fv, d.arg, false); !ok {
				msgs = append(msgs, msg)
			}
		}
	}
	return msgs
}

func isZero(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.Len() == 0
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	case reflect.Bool:
		return !fv.Bool()
	default:
		if fv.Type() == timeType {
			return fv.Interface().(time.Time).IsZero()
		}
		return fv.IsZero()
	}
}

func checkBound(fv reflect.Value, bound float64, isMin bool) (string, bool) {
	n := int(bound)
	switch fv.Kind() {
	case reflect.String:
		if fv.Len() == 0 {
			return "", true
		}
		count := utf8.RuneCountInString(fv.String())
		if isMin {
			return fmt.Sprintf(MsgMinLength, n), count >= n
		}
		return fmt.Sprintf(MsgMaxLength, n), count <= n
	case reflect.Slice:
		if isMin {
			return fmt.Sprintf(MsgMinItems, n), fv.Len() >= n
		}
		return fmt.Sprintf(MsgMaxItems, n), fv.Len() <= n
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return compare(float64(fv.Int()), bound, isMin)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return compare(float64(fv.Uint()), bound, isMin)
	case reflect.Float32, reflect.Float64:
		return compare(fv.Float(), bound, isMin)
	default:
		return "", true
	}
}

func compare(value, bound float64, isMin bool) (string, bool) {
	b := strconv.FormatFloat(bound, 'f', -1, 64)
	if isMin {
		return fmt.Sprintf(MsgMin, b), value >= bound
	}
	return fmt.Sprintf(MsgMax, b), value <= bound
}
