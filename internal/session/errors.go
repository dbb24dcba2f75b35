package session

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is returned when the auth backend answers 2xx but the
// body is missing the token or the user record.
var ErrInvalidResponse = errors.New("session: auth response missing token or user")

// AuthError is a failed login, registration or logout: either the backend
// rejected the request (Status and Message set) or the transport failed
// (Err set).
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("session: authentication failed: %s", e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("session: authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("session: authentication failed: status %d", e.Status)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
