// Package fault defines the error conditions surfaced to operators.
// Callers classify wrapped errors with errors.Is.
package fault

import "errors"

var (
	// ErrPersistenceUnavailable means the backing store handle is not
	// configured. Checked before any write is attempted.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrWriteFailed means a store mutation failed. The in-memory state is
	// left unchanged and the operation is retryable.
	ErrWriteFailed = errors.New("write failed")

	// ErrParseFailed means an imported row or date could not be parsed.
	ErrParseFailed = errors.New("parse failed")

	// ErrValidationFailed means a required field was empty or malformed.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotFound means the requested record does not exist or is not
	// visible. Infrastructure failures never wrap this sentinel.
	ErrNotFound = errors.New("not found")
)
