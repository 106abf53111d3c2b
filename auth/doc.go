// Package auth guards the status endpoints.
//
// Callers authenticate with an API key or an HMAC-signed JWT. Their roles
// are mapped to capabilities by a Policy, and a Gate admits a request only
// when the identity holds the capability the route requires (by default
// CapabilityViewStatus). Missing or bad credentials yield 401; a valid
// identity lacking the capability yields 403.
package auth
