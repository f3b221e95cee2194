package api

import (
	"errors"
	"fmt"
)

// SessionExpiredMessage is shown when authorization cannot be recovered.
const SessionExpiredMessage = "Session expired, please log in again"

// NetworkError is a transport failure or timeout talking to the API.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is an HTTP error status other than 401, or a response that
// could not be decoded.
type RemoteError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// AuthError means the 401 recovery cascade was exhausted. Message is meant for
// the user; Reason records what the last recovery step reported.
type AuthError struct {
	Message string
	Reason  string
}

func (e *AuthError) Error() string { return e.Message }

// IsAuthError reports whether err is or wraps an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
