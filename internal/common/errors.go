// Package common defines the error taxonomy and small helpers shared by the
// client packages. Callers match the typed errors with errors.As and the
// wrapped causes with errors.Is.
package common

import (
	"errors"
	"fmt"
)

// AuthError is returned when login, signup or a profile update is rejected,
// or when an operation that needs a bearer token runs without one.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError builds an AuthError, falling back to the given message when
// the server supplied none.
func NewAuthError(detail, fallback string, cause error) *AuthError {
	if detail == "" {
		detail = fallback
	}
	return &AuthError{Message: detail, Err: cause}
}

// ErrNoSession is the cause attached to AuthError when no token is held.
var ErrNoSession = errors.New("not authenticated")

// ValidationError carries the first field-level message reported either by
// the basic client-side constraints or by the server.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError is terminal: the requested resource does not exist (or could
// not be fetched) and retrying is not offered.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transport-level failures, including timeouts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
