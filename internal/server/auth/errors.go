package auth

import (
	"github.com/dmitrijs2005/ragkeeper/internal/common"
)

// Kind classifies why a token was rejected.
type Kind int

const (
	KindInvalidSignature Kind = iota + 1
	KindExpired
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSignature:
		return "invalid signature"
	case KindExpired:
		return "expired"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// AuthError is returned by TokenService.Verify. It matches
// common.ErrorUnauthorized with errors.Is, and Cause keeps the underlying
// library error for logs.
type AuthError struct {
	Kind  Kind
	Cause error
}

func (e *AuthError) Error() string {
	return "token " + e.Kind.String()
}

func (e *AuthError) Unwrap() []error {
	if e.Cause == nil {
		return []error{common.ErrorUnauthorized}
	}
	return []error{common.ErrorUnauthorized, e.Cause}
}

func newAuthError(kind Kind, cause error) *AuthError {
	return &AuthError{Kind: kind, Cause: cause}
}
