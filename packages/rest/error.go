package rest

import (
	"errors"
	"fmt"
)

// Error is the rejection value for a request. An HTTP-level error
// (status >= 400) carries the full Response so callers can inspect the
// same shape as a success. A transport failure has StatusCode 0 and a
// nil Response, with the underlying error in Cause.
type Error struct {
	Method     string
	URL        string
	StatusCode int
	Response   *Response
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: http %d %s", e.Method, e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsStatus reports whether err is an HTTP error with the given status code.
func IsStatus(err error, code int) bool {
	re, ok := AsError(err)
	return ok && re.StatusCode == code
}

// IsTransport reports whether err occurred before any response was
// received (connection refused, DNS failure, timeout).
func IsTransport(err error) bool {
	re, ok := AsError(err)
	return ok && re.StatusCode == 0
}
