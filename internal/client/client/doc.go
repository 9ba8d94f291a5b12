// Package client is the client side of the ragkeeper assistant API.
//
// GRPCClient keeps one connection to the server, remembers the access token
// returned by Login and attaches it to every later call through a unary
// interceptor. gRPC status codes are mapped to ErrUnauthorized and
// ErrUnavailable so callers can match them with errors.Is.
package client
