package cache

import "time"

// Policy configures how long cached status responses and settings live.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MinTTL is the smallest allowed TTL. Positive TTLs below it are raised
	// to it. If zero, no minimum is enforced.
	MinTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Larger TTLs are clamped to it.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// Default cache lifetimes for aggregated responses.
const (
	DefaultTTL = 300 * time.Second
	MinTTL     = 60 * time.Second
)

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 5 minutes, MinTTL: 1 minute, no maximum.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: DefaultTTL,
		MinTTL:     MinTTL,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// A non-positive override selects DefaultTTL.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if ttl <= 0 {
		return 0
	}

	if p.MinTTL > 0 && ttl < p.MinTTL {
		ttl = p.MinTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
