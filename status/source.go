package status

import (
	"context"
	"fmt"
	"sync"
)

// Source supplies the checks of one category, in a stable order.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: an error fails the whole request; there is nothing to aggregate.
type Source interface {
	Checks(ctx context.Context, category Category) ([]Check, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, category Category) ([]Check, error)

// Checks calls f.
func (f SourceFunc) Checks(ctx context.Context, category Category) ([]Check, error) {
	return f(ctx, category)
}

// Registry is an in-memory Source. Checks are returned in registration order.
type Registry struct {
	mu     sync.RWMutex
	checks map[Category][]Check
	refs   map[string]Category
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		checks: make(map[Category][]Check),
		refs:   make(map[string]Category),
	}
}

// Register adds check under category. Refs are unique across categories.
func (r *Registry) Register(category Category, check Check) error {
	if check == nil {
		return ErrNilCheck
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	ref := check.Ref()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.refs[ref]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRef, ref)
	}
	r.refs[ref] = category
	r.checks[category] = append(r.checks[category], check)
	return nil
}

// RegisterTyped adds check under its own category (see CategoryOf).
func (r *Registry) RegisterTyped(check Check) error {
	if check == nil {
		return ErrNilCheck
	}
	return r.Register(CategoryOf(check), check)
}

// Unregister removes the check with ref. It reports whether one was removed.
func (r *Registry) Unregister(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.refs[ref]
	if !ok {
		return false
	}
	delete(r.refs, ref)

	list := r.checks[category]
	for i, c := range list {
		if c.Ref() == ref {
			r.checks[category] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	return true
}

// Refs returns every registered ref, grouped by category in source order.
func (r *Registry) Refs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]string, 0, len(r.refs))
	for _, category := range Categories {
		for _, c := range r.checks[category] {
			refs = append(refs, c.Ref())
		}
	}
	return refs
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.refs)
}

// Checks returns a copy of the checks registered under category.
func (r *Registry) Checks(_ context.Context, category Category) ([]Check, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.checks[category]
	out := make([]Check, len(list))
	copy(out, list)
	return out, nil
}

var (
	_ Source = (*Registry)(nil)
	_ Source = SourceFunc(nil)
)
