package settings

import (
	"context"
	"time"

	"github.com/jonwraymond/statuscheck/cache"
)

// CachedProvider memoizes lookups from another provider for a fixed TTL.
// Read errors are not cached.
type CachedProvider struct {
	next   Provider
	loader *cache.Loader
	ttl    time.Duration
}

// NewCachedProvider caches next's values in c for ttl. The TTL is clamped to
// the default cache policy.
func NewCachedProvider(next Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	policy := cache.DefaultPolicy()
	return &CachedProvider{
		next:   next,
		loader: cache.NewLoader(c, policy),
		ttl:    policy.EffectiveTTL(ttl),
	}
}

// Presence markers prefixed to cached values.
const (
	markerFound   = '+'
	markerMissing = '-'
)

// Get returns the cached value for key, loading it on a miss.
func (p *CachedProvider) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := p.loader.Load(ctx, "settings:"+key, p.ttl, func(ctx context.Context) ([]byte, error) {
		v, ok, err := p.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []byte{markerMissing}, nil
		}
		return append([]byte{markerFound}, v...), nil
	})
	if err != nil {
		return "", false, err
	}
	if len(raw) == 0 || raw[0] != markerFound {
		return "", false, nil
	}
	return string(raw[1:]), true, nil
}

// Invalidate drops the cached value for key.
func (p *CachedProvider) Invalidate(ctx context.Context, key string) error {
	return p.loader.Invalidate(ctx, "settings:"+key)
}

var _ Provider = (*CachedProvider)(nil)
