package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Login throttling and credential errors
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrInvalidCredentials = errors.New("wrong email or password")

	// Listing input errors (bad page, unknown sort or search field)
	ErrInvalidArgument = errors.New("invalid argument")

	ErrPasswordMismatch = errors.New("password confirmation mismatched")
)
