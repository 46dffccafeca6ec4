// Package apperr defines the error kinds shared across services.
// Errors are wrapped with %w and matched with errors.Is, so callers
// can map them to transport-level responses without string checks.
package apperr

import "errors"

var (
	// ErrNotFound marks a lookup failure on the primary entity of an operation.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks a rejected input (e.g. non-positive quantity).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict marks a lost race on a conditional update.
	ErrConflict = errors.New("conflict")
)
