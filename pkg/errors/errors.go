// Package errors defines the sentinel errors of the service layer and
// their HTTP status mapping. The core engine is total and returns no
// errors; page validation in the ingestion pipeline is the only user of
// these. The search handler writes its HTTP errors directly.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrIndexNotReady = errors.New("index not ready")
	ErrPageTooLarge  = errors.New("page exceeds size limit")
	ErrInternal      = errors.New("internal error")
)

// AppError pairs a sentinel with a human-readable message and a status
// code for the HTTP layer.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Newf wraps a sentinel with a formatted message and status code.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error chain to an HTTP status.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrIndexNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
