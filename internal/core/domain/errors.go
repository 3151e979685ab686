package domain

import "errors"

// Guard and token errors. ErrInvalidToken is internal to token verification
// and is converted to ErrUnauthenticated at the guard boundary; it never
// reaches a handler.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// ErrUpstreamTimeout reports that a backend service call exceeded its
// deadline. The gateway never retries; the caller decides.
var ErrUpstreamTimeout = errors.New("backend service timed out")

// User storage errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
