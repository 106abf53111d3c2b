package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/statuscheck/cache"
)

// Setting keys.
const (
	// KeyExcludedChecks holds a comma-separated list of check refs.
	KeyExcludedChecks = "excludedchecks"

	// KeyEnableCaching toggles response caching.
	KeyEnableCaching = "enablecaching"

	// KeyCacheTTL is the response cache lifetime, in seconds or as a Go
	// duration string.
	KeyCacheTTL = "cachettl"
)

// Keys lists every setting key.
var Keys = []string{KeyExcludedChecks, KeyEnableCaching, KeyCacheTTL}

// Provider supplies raw setting values.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Get returns ("", false, nil) for an unset key; an error means the
//     backing store could not be read.
type Provider interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, key string) (string, bool, error)

// Get calls f.
func (f ProviderFunc) Get(ctx context.Context, key string) (string, bool, error) {
	return f(ctx, key)
}

// Settings is one snapshot of the runtime configuration.
type Settings struct {
	// ExcludedChecks is the raw exclusion list, parsed by the status package.
	ExcludedChecks string

	// EnableCaching reports whether aggregated responses may be cached.
	EnableCaching bool

	// CacheTTL is the response cache lifetime, clamped to the cache policy.
	CacheTTL time.Duration
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{CacheTTL: cache.DefaultTTL}
}

// Load reads every key from p.
//
// Load is lenient: a key that cannot be read or parsed keeps its default and
// the failure is reported in the returned error, joined with any others. The
// returned Settings is always usable. A nil provider yields Defaults.
func Load(ctx context.Context, p Provider) (Settings, error) {
	s := Defaults()
	if p == nil {
		return s, nil
	}

	var errs []error

	if v, ok, err := p.Get(ctx, KeyExcludedChecks); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyExcludedChecks, err))
	} else if ok {
		s.ExcludedChecks = v
	}

	if v, ok, err := p.Get(ctx, KeyEnableCaching); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyEnableCaching, err))
	} else if ok {
		b, err := ParseBool(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.EnableCaching = b
		}
	}

	if v, ok, err := p.Get(ctx, KeyCacheTTL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyCacheTTL, err))
	} else if ok {
		ttl, err := ParseTTL(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.CacheTTL = ttl
		}
	}

	return s, errors.Join(errs...)
}

// ParseBool parses a boolean setting. In addition to the strconv forms it
// accepts yes/no and on/off. An empty value is false.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "f", "false", "no", "off":
		return false, nil
	case "1", "t", "true", "yes", "on":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyEnableCaching, v)
	}
}

// ParseTTL parses a cache lifetime given as whole seconds ("300") or a Go
// duration ("5m"). Values below the 60s minimum are raised to it; an empty
// or non-positive value selects the 300s default.
func ParseTTL(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return cache.DefaultTTL, nil
	}

	var d time.Duration
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyCacheTTL, v)
		}
		d = parsed
	}

	return cache.DefaultPolicy().EffectiveTTL(d), nil
}
