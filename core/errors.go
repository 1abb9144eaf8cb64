package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when caller-supplied data fails local shape checks, before anything is sent.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
	}
	return "validation failed"
}

// NetworkError means the request never reached the server or no response came back.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (err *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Method, err.Path, err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

// HTTPError is a 4xx/5xx answer from the backend.
type HTTPError struct {
	Status  int
	Message string
}

func (err *HTTPError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("%d %s", err.Status, http.StatusText(err.Status))
	}
	return fmt.Sprintf("%d %s", err.Status, err.Message)
}

// Temporary reports whether retrying the same request may succeed.
func (err *HTTPError) Temporary() bool {
	return err.Status >= http.StatusInternalServerError || err.Status == http.StatusTooManyRequests
}

// AsHTTPError returns the HTTPError at the root of err, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	herr, ok := errors.Cause(err).(*HTTPError)
	return herr, ok
}

// IsHTTPStatus reports whether err is an HTTPError with the given status code.
func IsHTTPStatus(err error, status int) bool {
	herr, ok := AsHTTPError(err)
	return ok && herr.Status == status
}

// IsNetworkError reports whether err is a NetworkError.
func IsNetworkError(err error) bool {
	_, ok := errors.Cause(err).(*NetworkError)
	return ok
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}
