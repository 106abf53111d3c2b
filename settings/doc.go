// Package settings supplies the runtime configuration read on every status
// request: the excluded check list, whether responses are cached, and the
// cache lifetime.
//
// Values come from a Provider. Providers compose: a ChainProvider layers an
// EnvProvider over a YAML FileProvider, a ResolvingProvider expands secret
// references, and a CachedProvider bounds how often the backing store is
// read.
package settings
