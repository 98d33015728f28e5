// Package errs defines the error taxonomy shared by the store, the
// gateways and the API layer. Domain services translate absent rows into
// nil/empty results; everything else bubbles up as one of these
// sentinels (usually wrapped with context) and the API layer maps them
// to HTTP statuses.
package errs

import "github.com/pkg/errors"

var (
	// ErrNotFound marks an entity or file that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a missing or invalid required field.
	ErrValidation = errors.New("validation failed")

	// ErrGeneration marks a failed upstream model call. Not retried.
	ErrGeneration = errors.New("generation failed")

	// ErrDataAccess marks a failed store call. Not retried.
	ErrDataAccess = errors.New("data access failed")

	// ErrAuth marks a missing, expired or otherwise rejected credential.
	ErrAuth = errors.New("unauthorized")

	// ErrZeroMagnitude marks an input whose embedding came back all-zero
	// and therefore cannot be unit-normalized.
	ErrZeroMagnitude = errors.New("zero magnitude embedding")

	// ErrInvalidInputType marks an embedding request for anything other
	// than an image or a text string.
	ErrInvalidInputType = errors.New("invalid input type")
)
