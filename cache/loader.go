package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a cache miss.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Loader implements cache-aside reads. Concurrent misses for the same key
// share one call to the LoadFunc.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: load errors are returned to every waiting caller and never cached.
type Loader struct {
	cache  Cache
	policy Policy
	group  singleflight.Group
}

// NewLoader creates a Loader over c. A nil cache disables caching.
func NewLoader(c Cache, policy Policy) *Loader {
	return &Loader{cache: c, policy: policy}
}

// Load returns the cached value for key, or calls fn and stores its result
// for ttl. A non-positive ttl selects the policy default. Invalid keys and a
// disabled policy bypass the cache.
func (l *Loader) Load(ctx context.Context, key string, ttl time.Duration, fn LoadFunc) ([]byte, error) {
	if l.cache == nil || !l.policy.ShouldCache() || ValidateKey(key) != nil {
		return fn(ctx)
	}

	if value, ok := l.cache.Get(ctx, key); ok {
		return value, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		if value, ok := l.cache.Get(ctx, key); ok {
			return value, nil
		}
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if effective := l.policy.EffectiveTTL(ttl); effective > 0 {
			_ = l.cache.Set(ctx, key, value, effective)
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate removes key from the underlying cache.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	if l.cache == nil {
		return ErrNilCache
	}
	return l.cache.Delete(ctx, key)
}
