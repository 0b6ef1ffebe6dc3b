package binder

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

// DateLayout is the layout used for time.Time fields.
const DateLayout = "2006-01-02"

// Maximum in-memory size for multipart bodies.
const maxMemory = 10 << 20

var (
	ErrInvalidTarget = errors.New("binder: target must be a non-nil pointer to struct")
	ErrParseRequest  = errors.New("binder: failed to parse request")
	ErrUnsupported   = errors.New("binder: unsupported field type")
)

var timeType = reflect.TypeFor[time.Time]()

// fieldError is a user-facing parse failure message.
type fieldError string

func (e fieldError) Error() string { return string(e) }

const (
	msgInvalidDate   fieldError = "Enter a valid date."
	msgInvalidBool   fieldError = "Enter a valid boolean."
	msgInvalidInt    fieldError = "Enter a whole number."
	msgInvalidNumber fieldError = "Enter a number."
)

// Func binds request data into v.
type Func func(r *http.Request, v any) error

// Form returns a binder reading url-encoded or multipart form values.
func Form() Func {
	return func(r *http.Request, v any) error {
		if err := parseForm(r); err != nil {
			return errors.Join(ErrParseRequest, err)
		}
		return bindValues(r.Form, "form", v)
	}
}

// Query returns a binder reading URL query parameters.
func Query() Func {
	return func(r *http.Request, v any) error {
		return bindValues(r.URL.Query(), "query", v)
	}
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func bindValues(values url.Values, tagName string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	var errs validator.ValidationErrors
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get(tagName), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := values[name]
		if !ok {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			if errors.Is(err, ErrUnsupported) {
				return fmt.Errorf("%w: %s %s", err, sf.Name, sf.Type)
			}
			errs.Add(name, err.Error())
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func setField(fv reflect.Value, raw []string) error {
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.Uint8 {
		return setSlice(fv, raw)
	}
	s := ""
	if len(raw) > 0 {
		s = strings.TrimSpace(raw[0])
	}
	if fv.Kind() == reflect.Pointer {
		if s == "" {
			fv.SetZero()
			return nil
		}
		ptr := reflect.New(fv.Type().Elem())
		if err := setScalar(ptr.Elem(), s); err != nil {
			return err
		}
		fv.Set(ptr)
		return nil
	}
	if s == "" && fv.Kind() != reflect.String {
		fv.SetZero()
		return nil
	}
	if fv.Kind() == reflect.String && len(raw) > 0 {
		// Keep whitespace for string fields; trimming belongs to sanitizer.
		s = raw[0]
	}
	return setScalar(fv, s)
}

func setSlice(fv reflect.Value, raw []string) error {
	out := reflect.MakeSlice(fv.Type(), 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		elem := reflect.New(fv.Type().Elem()).Elem()
		if err := setScalar(elem, s); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	fv.Set(out)
	return nil
}

func setScalar(fv reflect.Value, s string) error {
	if fv.Type() == timeType {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return msgInvalidDate
		}
		fv.Set(reflect.ValueOf(t))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return msgInvalidBool
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return msgInvalidInt
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return msgInvalidInt
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return msgInvalidNumber
		}
		fv.SetFloat(n)
	default:
		return ErrUnsupported
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
