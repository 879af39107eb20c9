package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned for a missing session or missing value.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned by backends for sessions past ExpiresAt.
	ErrExpired = errors.New("session: expired")

	// ErrTypeMismatch is returned by Value when the stored value cannot be
	// converted to the requested type.
	ErrTypeMismatch = errors.New("session: type mismatch")
)
