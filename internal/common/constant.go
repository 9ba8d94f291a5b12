// Package common contains shared constants and sentinel errors used across
// ragkeeper components.
package common

// AuthorizationHeaderName is the HTTP header / gRPC metadata key that carries
// the bearer access token.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the only token type issued and accepted.
const BearerScheme = "bearer"
