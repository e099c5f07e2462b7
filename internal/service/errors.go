// Package service implements the authentication, token, file storage and
// image subsystems on top of the repository layer.  Services return typed
// errors from the taxonomy below; handlers map them onto HTTP statuses.
package service

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input: empty credentials, an invalid
// role selection, or a bad file extension/size/content.  The message is safe
// to show to the caller.  Mapped to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate registration email.  Mapped to 400, the
// platform's observed behaviour, rather than 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthenticationError covers every credential failure: unknown user,
// inactive user, wrong password, or a missing/expired/reused refresh token.
// The message stays generic so a caller cannot probe which factor failed.
// Mapped to 401.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// NotFoundError reports an absent referenced entity.  Mapped to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StorageError wraps a filesystem failure during image save.  Partial
// artifacts are cleaned up before it propagates.  Mapped to 500.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// ErrTokenInvalid is returned by the token service for any refresh token
// that cannot be used: unknown, expired or already revoked.  The cases are
// deliberately indistinguishable.
var ErrTokenInvalid = errors.New("invalid token")
