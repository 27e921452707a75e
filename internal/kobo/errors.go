package kobo

import "errors"

var (
	ErrPathInvalid       = errors.New("invalid device path")
	ErrDatabaseOpen      = errors.New("failed to open Kobo database")
	ErrQuery             = errors.New("failed to query Kobo database")
	ErrSnapshot          = errors.New("failed to read library snapshot")
	ErrInvalidLookupArgs = errors.New("either ISBN or title must be provided")

	// ErrRowMapping marks a single row that could not be mapped. Readers
	// drop such rows and count them; it is never returned to callers.
	ErrRowMapping = errors.New("row cannot be mapped")
)
