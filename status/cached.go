package status

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/statuscheck/cache"
	"github.com/jonwraymond/statuscheck/observe"
	"github.com/jonwraymond/statuscheck/settings"
)

// Service is the set of operations served over HTTP.
type Service interface {
	SystemStatus(ctx context.Context, scope Scope) (DetailedResponse, error)
	HealthStatus(ctx context.Context) (SimpleResponse, error)
	Catalog(ctx context.Context) ([]CatalogEntry, error)
}

// CachedAggregator serves responses from a cache when the enablecaching
// setting is on. Entries live for the cachettl setting and are keyed by
// endpoint, scope and the active exclusion list, so changing exclusions
// never serves a stale selection.
//
// The settings are read on every request; turning caching off takes effect
// immediately. Source errors are never cached.
type CachedAggregator struct {
	agg      *Aggregator
	settings settings.Provider
	loader   *cache.Loader
	keyer    cache.Keyer
	logger   observe.Logger
}

// NewCachedAggregator wraps agg with c. The aggregator's settings provider
// and logger are shared.
func NewCachedAggregator(agg *Aggregator, c cache.Cache) *CachedAggregator {
	return &CachedAggregator{
		agg:      agg,
		settings: agg.settings,
		loader:   cache.NewLoader(c, cache.DefaultPolicy()),
		keyer:    cache.NewDefaultKeyer(),
		logger:   agg.logger,
	}
}

// SystemStatus returns the cached detailed response for scope, computing it
// on a miss.
func (c *CachedAggregator) SystemStatus(ctx context.Context, scope Scope) (DetailedResponse, error) {
	var resp DetailedResponse
	err := c.load(ctx, "status/"+string(scope), scope, &resp, func(ctx context.Context) (any, error) {
		return c.agg.SystemStatus(ctx, scope)
	})
	return resp, err
}

// HealthStatus returns the cached simple response, computing it on a miss.
func (c *CachedAggregator) HealthStatus(ctx context.Context) (SimpleResponse, error) {
	var resp SimpleResponse
	err := c.load(ctx, "health", "", &resp, func(ctx context.Context) (any, error) {
		return c.agg.HealthStatus(ctx)
	})
	return resp, err
}

// Catalog is never cached; it evaluates no checks.
func (c *CachedAggregator) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	return c.agg.Catalog(ctx)
}

func (c *CachedAggregator) load(ctx context.Context, namespace string, scope Scope, out any, compute func(context.Context) (any, error)) error {
	s, err := settings.Load(ctx, c.settings)
	if err != nil {
		c.logger.Warn(ctx, "settings unavailable, using defaults",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	if !s.EnableCaching {
		return assign(ctx, compute, out)
	}

	excluded, err := ParseExclusions(s.ExcludedChecks)
	if err != nil {
		c.logger.Warn(ctx, "ignoring malformed exclusion list",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	key, err := c.keyer.Key(namespace, map[string]any{
		"scope":    string(scope),
		"excluded": refsAny(excluded.Refs()),
	})
	if err != nil {
		c.logger.Warn(ctx, "cache key unavailable, bypassing cache",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return assign(ctx, compute, out)
	}

	raw, err := c.loader.Load(ctx, key, s.CacheTTL, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("status: decode cached response: %w", err)
	}
	return nil
}

// assign computes a fresh value and stores it in out.
func assign(ctx context.Context, compute func(context.Context) (any, error), out any) error {
	v, err := compute(ctx)
	if err != nil {
		return err
	}
	switch dst := out.(type) {
	case *DetailedResponse:
		*dst = v.(DetailedResponse)
	case *SimpleResponse:
		*dst = v.(SimpleResponse)
	default:
		return fmt.Errorf("status: unsupported response type %T", out)
	}
	return nil
}

func refsAny(refs []string) []any {
	out := make([]any, len(refs))
	for i, r := range refs {
		out[i] = r
	}
	return out
}

var (
	_ Service = (*Aggregator)(nil)
	_ Service = (*CachedAggregator)(nil)
)
