// Package common defines shared constants and sentinel errors used across
// server and client layers of ragkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrEmptyQuery = errors.New("query must not be empty")

	// Degraded-path errors. These never reach a caller of the query pipeline.
	ErrRetrievalFailed       = errors.New("retrieval failed")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrSigningSecretMissing  = errors.New("signing secret is not configured")
)
