package service

import (
	"errors"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// Error is a classified failure whose message is safe to show to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func invalid(err error) *Error {
	return newError(ErrInvalidInput, err.Error())
}

var (
	ErrInvalidCredentials   = newError(ErrUnauthorized, "Invalid credentials")
	ErrInvalidToken         = newError(ErrUnauthorized, "Invalid token")
	ErrUserNotFound         = newError(ErrNotFound, "User not found")
	ErrUsernameTaken        = newError(ErrConflict, "Username already taken")
	ErrEmailTaken           = newError(ErrConflict, "Email already registered")
	ErrHabitNotFound        = newError(ErrNotFound, "Habit not found")
	ErrHabitNameTaken       = newError(ErrConflict, "You already have a habit with this name")
	ErrInvalidDate          = newError(ErrInvalidInput, "Date must be formatted as YYYY-MM-DD")
	ErrCannotFollowSelf     = newError(ErrInvalidInput, "Cannot follow yourself")
	ErrAlreadyFollowing     = newError(ErrConflict, "Already following this user")
	ErrNotFollowing         = newError(ErrInvalidInput, "Not following this user")
	ErrSearchQueryTooShort  = newError(ErrInvalidInput, "Search query must be at least 2 characters")
	ErrResetLinkInvalid     = newError(ErrInvalidInput, "Invalid or expired reset link")
	ErrStorageUnavailable   = newError(ErrUnavailable, "File uploads are not configured")
	ErrIntegrationMissing   = newError(ErrNotFound, "Not connected")
	ErrIntegrationDisabled  = newError(ErrUnavailable, "Integration is not configured")
	ErrNoActiveDevice       = newError(ErrNotFound, "No active Spotify device found")
	ErrPremiumRequired      = newError(ErrForbidden, "Spotify Premium required for controls")
	ErrAuthorizationMissing = newError(ErrInvalidInput, "Authorization code required")
)
