package settings

import (
	"context"
	"fmt"

	"github.com/jonwraymond/statuscheck/secret"
)

// ResolvingProvider expands environment variables and secret references in
// values from another provider, so a settings file can hold
// "excludedchecks: ${STATUSCHECK_EXCLUDED}" or a secretref.
type ResolvingProvider struct {
	next     Provider
	resolver *secret.Resolver
}

// NewResolvingProvider wraps next. A nil resolver only expands the environment.
func NewResolvingProvider(next Provider, resolver *secret.Resolver) *ResolvingProvider {
	return &ResolvingProvider{next: next, resolver: resolver}
}

// Get returns the resolved value for key.
func (p *ResolvingProvider) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := p.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	resolved, err := p.resolver.ResolveValue(ctx, v)
	if err != nil {
		return "", false, fmt.Errorf("settings: resolve %s: %w", key, err)
	}
	return resolved, true, nil
}

var _ Provider = (*ResolvingProvider)(nil)
