package auth

import "errors"

var (
	// ErrTokenExpired indicates a structurally valid token whose lifetime has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenMalformed covers structural damage, signature mismatch and bad claims.
	ErrTokenMalformed = errors.New("auth: token malformed")
	// ErrNotFound indicates the principal referenced by a token no longer exists.
	ErrNotFound = errors.New("auth: principal not found")

	ErrUsernameTaken      = errors.New("auth: username already taken")
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
)
