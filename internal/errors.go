package internal

import (
	"errors"
	"net/http"
)

// HTTPError carries what an error page needs. Err is logged, never shown.
type HTTPError struct {
	Err       error
	Message   string
	Title     string
	Detail    string
	ErrorCode string
	RequestID string
	Code      int
}

func (e *HTTPError) Error() string   { return e.Message }
func (e *HTTPError) Unwrap() error   { return e.Err }
func (e *HTTPError) StatusCode() int { return e.Code }

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

type HTTPErrorOption func(*HTTPError)

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) { e.Title = title }
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) { e.Detail = detail }
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.ErrorCode = code }
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) { e.RequestID = id }
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusTooManyRequests, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError finds an HTTPError in err's chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
