// Package checks provides built-in status checks and the Guard decorator
// that runs a check behind a timeout and circuit breaker.
package checks
