// Package cache provides TTL caching for aggregated status responses and
// runtime settings.
//
// It provides a Cache interface with an in-memory implementation, SHA-256
// based key derivation, a TTL policy with the service's default (300s) and
// minimum (60s) lifetimes, and a Loader that collapses concurrent misses for
// the same key into a single load.
package cache
