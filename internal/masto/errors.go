package masto

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError wraps a transport-level failure (connection refused, timeout,
// cancelled context). The request never produced an HTTP response.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DecodeError wraps a malformed response body.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is a non-2xx HTTP response from the instance. Message carries the
// server's error description when one was provided.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// NotAllowed reports whether the server rejected the request as unauthorized
// or forbidden, e.g. following a blocked account or acting without a valid
// token.
func (e *APIError) NotAllowed() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// IsNotAllowed reports whether err is an APIError the server refused on
// authorization or policy grounds.
func IsNotAllowed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotAllowed()
}
