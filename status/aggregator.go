package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonwraymond/statuscheck/observe"
	"github.com/jonwraymond/statuscheck/settings"
)

// Aggregator runs the filter, normalize, reduce and assemble pipeline over a
// Source. It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	source     Source
	settings   settings.Provider
	normalizer *Normalizer
	mw         *observe.Middleware
	logger     observe.Logger
	platform   Platform
	now        func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSettings sets the provider read on every request for the exclusion list.
func WithSettings(p settings.Provider) Option {
	return func(a *Aggregator) { a.settings = p }
}

// WithNormalizer replaces the default Normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(a *Aggregator) { a.normalizer = n }
}

// WithMiddleware records request metrics with mw, and check telemetry too
// unless a Normalizer is supplied.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(a *Aggregator) { a.mw = mw }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l observe.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithPlatform sets the platform metadata echoed in detailed responses.
func WithPlatform(p Platform) Option {
	return func(a *Aggregator) { a.platform = p }
}

// WithClock sets the clock used to stamp responses. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an Aggregator over source.
func NewAggregator(source Source, opts ...Option) (*Aggregator, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	a := &Aggregator{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.mw == nil {
		a.mw = observe.NewMiddleware(nil, nil, nil)
	}
	if a.normalizer == nil {
		a.normalizer = NewNormalizer(nil, a.mw)
	}
	if a.logger == nil {
		a.logger = observe.NopLogger()
	}
	return a, nil
}

// SimpleCategories are the categories covered by HealthStatus.
// Performance checks are deliberately left out.
var SimpleCategories = []Category{CategoryStatus, CategorySecurity}

// SystemStatus aggregates every non-excluded check in scope.
//
// All checks are evaluated and tallied; checks that fail are logged and
// omitted. The only error is a Source failure.
func (a *Aggregator) SystemStatus(ctx context.Context, scope Scope) (DetailedResponse, error) {
	start := time.Now()

	checks, err := a.checks(ctx, scope.Categories())
	if err != nil {
		return DetailedResponse{}, err
	}

	var tally Tally
	rows := make([]NormalizedCheck, 0, len(checks))
	for _, check := range checks {
		nc, ok := a.normalize(ctx, check)
		if !ok {
			continue
		}
		tally.Add(nc.Level)
		rows = append(rows, nc)
	}

	resp := AssembleDetailed(tally, rows, a.now(), a.platform)
	a.mw.RecordRequest(ctx, "status", tally.Health().Label.String(), time.Since(start))
	return resp, nil
}

// HealthStatus reports whether the status and security checks are healthy.
//
// Evaluation stops at the first critical result, so later checks are not
// invoked. Warnings leave the system healthy.
func (a *Aggregator) HealthStatus(ctx context.Context) (SimpleResponse, error) {
	start := time.Now()

	checks, err := a.checks(ctx, SimpleCategories)
	if err != nil {
		return SimpleResponse{}, err
	}

	var v verdict
	for _, check := range checks {
		nc, ok := a.normalize(ctx, check)
		if !ok {
			continue
		}
		if v.observe(nc.Level) {
			break
		}
	}

	health := v.health()
	resp := AssembleSimple(health, a.now())
	a.mw.RecordRequest(ctx, "health", health.Label.String(), time.Since(start))
	return resp, nil
}

// CatalogEntry describes one available check without evaluating it.
type CatalogEntry struct {
	Ref       string `json:"ref"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Component string `json:"component"`
	Label     string `json:"label"`
	Excluded  bool   `json:"excluded"`
}

// Catalog lists every check from every category, sorted by name, marking
// those currently excluded. No check results are computed.
func (a *Aggregator) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	var all []Check
	for _, category := range Categories {
		list, err := a.source.Checks(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceFailed, category, err)
		}
		all = append(all, list...)
	}
	excluded := a.exclusions(ctx)

	entries := make([]CatalogEntry, 0, len(all))
	for _, check := range all {
		category := string(CategoryOf(check))
		entries = append(entries, CatalogEntry{
			Ref:       check.Ref(),
			Name:      check.Name(),
			Type:      category,
			Component: check.Component(),
			Label:     fmt.Sprintf("%s (%s - %s)", check.Name(), category, check.Component()),
			Excluded:  excluded.Contains(check.Ref()),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Ref < entries[j].Ref
	})
	return entries, nil
}

// checks lists the categories' checks in source order with exclusions applied.
func (a *Aggregator) checks(ctx context.Context, categories []Category) ([]Check, error) {
	excluded := a.exclusions(ctx)

	var all []Check
	for _, category := range categories {
		list, err := a.source.Checks(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceFailed, category, err)
		}
		all = append(all, list...)
	}

	kept := Filter(all, excluded)
	if dropped := len(all) - len(kept); dropped > 0 {
		a.logger.Debug(ctx, "checks excluded",
			observe.Field{Key: "excluded", Value: dropped},
			observe.Field{Key: "remaining", Value: len(kept)},
		)
	}
	return kept, nil
}

// exclusions reads the exclusion list. Failures fall back to no exclusions.
func (a *Aggregator) exclusions(ctx context.Context) ExclusionSet {
	s, err := settings.Load(ctx, a.settings)
	if err != nil {
		a.logger.Warn(ctx, "settings unavailable, using defaults",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}

	set, err := ParseExclusions(s.ExcludedChecks)
	if err != nil {
		a.logger.Warn(ctx, "ignoring malformed exclusion list",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	return set
}

func (a *Aggregator) normalize(ctx context.Context, check Check) (NormalizedCheck, bool) {
	nc, err := a.normalizer.Normalize(ctx, check)
	if err != nil {
		a.logger.Debug(ctx, "check omitted",
			observe.Field{Key: "check.ref", Value: refOf(err)},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return NormalizedCheck{}, false
	}
	return nc, true
}

func refOf(err error) string {
	if ne, ok := err.(*NormalizeError); ok {
		return ne.Ref
	}
	return ""
}
