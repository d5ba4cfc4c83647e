package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// Authentication errors. ErrInvalidCredentials covers unknown user,
	// wrong password and disabled account alike so the login response
	// never reveals which check failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("invalid or expired token")

	// ErrValidation covers request-level policy failures such as a new
	// password below the configured minimum length.
	ErrValidation = errors.New("validation failed")
)
