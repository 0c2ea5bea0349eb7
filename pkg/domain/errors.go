package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when the acting principal may not perform an action.
	// The message is shown to callers verbatim, so it carries no detail.
	ErrUnauthorized = errors.New("Unauthorized") //nolint:staticcheck
)
