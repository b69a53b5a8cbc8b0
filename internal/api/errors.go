package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is shown when the backend gives no usable message.
const DefaultErrorMessage = "Something went wrong. Please try again."

// NetworkErrorMessage is shown when the backend could not be reached.
const NetworkErrorMessage = "Unable to reach the server. Check your connection and try again."

// ErrUnexpectedResponse is returned when a 2xx body does not match the
// expected schema.
var ErrUnexpectedResponse = errors.New("api: unexpected response body")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	// Authenticated is set when the failed request carried a bearer token.
	Authenticated bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusOf returns the backend status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsUnauthorized reports whether the backend rejected the credential.
func IsUnauthorized(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

// IsTokenRejected reports whether the backend answered 401 to a request
// that carried the session's token. A 401 from a login form is a wrong
// password, not a dead session.
func IsTokenRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && apiErr.Authenticated
}

// IsCanceled reports whether the call was abandoned by its caller.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Message returns the text a page shows for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkErrorMessage
	}
	return DefaultErrorMessage
}
