package domain

import "errors"

var (
	// ErrValidation marks locally-detected invalid input. Operations reject
	// it before any store call is made.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a store-assigned identifier matches no row.
	ErrNotFound = errors.New("not found")

	// ErrScopingUnsupported reports that the store rejected a per-user filter
	// because the underlying table predates the ownership column. Adapters
	// recover from it by retrying the operation unscoped, exactly once.
	ErrScopingUnsupported = errors.New("per-user scoping unsupported")
)
