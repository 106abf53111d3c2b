package auth

import (
	"context"
	"net/http"
)

// Authenticator validates request credentials and returns an identity.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: credential failures are reported with the sentinel errors in
//     this package; any other error is an internal failure.
type Authenticator interface {
	// Name returns a unique identifier for this authenticator.
	Name() string

	// Supports reports whether the request carries credentials this
	// authenticator understands.
	Supports(header http.Header) bool

	// Authenticate validates the credentials in header.
	Authenticate(ctx context.Context, header http.Header) (*Identity, error)
}

// Chain tries authenticators in order. The first one that supports the
// request decides the outcome; later ones are not consulted.
type Chain []Authenticator

// Name returns "chain".
func (c Chain) Name() string {
	return "chain"
}

// Supports returns true if any authenticator supports the request.
func (c Chain) Supports(header http.Header) bool {
	for _, a := range c {
		if a.Supports(header) {
			return true
		}
	}
	return false
}

// Authenticate delegates to the first supporting authenticator.
// It returns ErrMissingCredentials when none applies.
func (c Chain) Authenticate(ctx context.Context, header http.Header) (*Identity, error) {
	for _, a := range c {
		if a.Supports(header) {
			return a.Authenticate(ctx, header)
		}
	}
	return nil, ErrMissingCredentials
}

var _ Authenticator = Chain(nil)
