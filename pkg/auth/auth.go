// Package auth defines the pluggable authorization gate evaluated over
// request headers before route matching. The gate carries no identity: it
// either admits a request or rejects it with 401.
package auth

import (
	"github.com/Karim-Chrif/simple-http-server/pkg/headers"
)

// Authorizer decides whether a request may proceed based solely on its
// headers
type Authorizer interface {
	Authorize(h headers.Headers) bool
}

// AuthorizerFunc adapts a plain function to the Authorizer interface
type AuthorizerFunc func(h headers.Headers) bool

// Authorize calls f(h)
func (f AuthorizerFunc) Authorize(h headers.Headers) bool {
	return f(h)
}

// AllowAll admits every request; equivalent to running with no authorizer
// configured
func AllowAll() Authorizer {
	return AuthorizerFunc(func(headers.Headers) bool {
		return true
	})
}

// RequireHeader admits requests that carry the named header with any value
func RequireHeader(name string) Authorizer {
	return AuthorizerFunc(func(h headers.Headers) bool {
		return h.Has(name)
	})
}

// StaticToken admits requests whose named header equals the expected token
// exactly
func StaticToken(name, token string) Authorizer {
	return AuthorizerFunc(func(h headers.Headers) bool {
		return h.Get(name) == token
	})
}
