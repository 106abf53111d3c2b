package auth

import (
	"context"
	"fmt"
)

// Capability names an operation a caller may perform, in the form
// "<area>/<resource>:<action>".
type Capability string

// CapabilityViewStatus grants read access to status reports and the check
// catalog.
const CapabilityViewStatus Capability = "report/status:view"

// Authorizer decides whether an identity holds a capability.
type Authorizer interface {
	// Authorize returns nil if permitted, or an error matching ErrForbidden.
	Authorize(ctx context.Context, id *Identity, capability Capability) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	// Subject is the identity that was denied.
	Subject string

	// Capability is the capability that was missing.
	Capability Capability

	// Reason explains why access was denied.
	Reason string
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q capability=%q reason=%q",
		e.Subject, e.Capability, e.Reason)
}

// Is reports whether this error matches the target.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// AllowAllAuthorizer permits all requests.
type AllowAllAuthorizer struct{}

// Authorize always returns nil (permitted).
func (AllowAllAuthorizer) Authorize(context.Context, *Identity, Capability) error {
	return nil
}

// Name returns "allow_all".
func (AllowAllAuthorizer) Name() string {
	return "allow_all"
}

// AuthorizerFunc is an adapter to allow use of ordinary functions as Authorizers.
type AuthorizerFunc func(ctx context.Context, id *Identity, capability Capability) error

// Authorize calls the function.
func (f AuthorizerFunc) Authorize(ctx context.Context, id *Identity, capability Capability) error {
	return f(ctx, id, capability)
}

// Name returns "func" for function-based authorizers.
func (f AuthorizerFunc) Name() string {
	return "func"
}

var (
	_ Authorizer = AllowAllAuthorizer{}
	_ Authorizer = AuthorizerFunc(nil)
)
