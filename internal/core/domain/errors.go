package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates the provider account email or secret
	// is absent. This is a configuration error and is never retried.
	ErrMissingCredentials = errors.New("missing provider credentials")

	// ErrNoSession indicates login completed at the transport level but the
	// provider returned no usable session. Fatal to the whole run.
	ErrNoSession = errors.New("no session returned by provider")

	// ErrUnknownBar indicates the bar id is not configured.
	ErrUnknownBar = errors.New("unknown bar")

	// ErrRateLimited indicates the provider rejected a request for pacing
	// reasons. Treated like any other collection failure for the category.
	ErrRateLimited = errors.New("rate limited")
)
