package settings

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// MapProvider serves settings from memory. Values can be changed at runtime.
type MapProvider struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapProvider creates a MapProvider holding a copy of values.
func NewMapProvider(values map[string]string) *MapProvider {
	m := &MapProvider{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get returns the stored value.
func (m *MapProvider) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores a value.
func (m *MapProvider) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

// Delete removes a value.
func (m *MapProvider) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// DefaultEnvPrefix prefixes environment variable names read by EnvProvider.
const DefaultEnvPrefix = "STATUSCHECK_"

// EnvProvider reads settings from environment variables named
// Prefix + upper-cased key, e.g. STATUSCHECK_EXCLUDEDCHECKS.
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates an EnvProvider using DefaultEnvPrefix.
func NewEnvProvider() EnvProvider {
	return EnvProvider{Prefix: DefaultEnvPrefix}
}

// Get looks up the variable for key.
func (p EnvProvider) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := os.LookupEnv(p.Prefix + strings.ToUpper(key))
	return v, ok, nil
}

// ChainProvider consults providers in order and returns the first value found.
// Failing providers are skipped; their errors are returned only when no
// provider has the key.
type ChainProvider []Provider

// Get returns the first value found.
func (c ChainProvider) Get(ctx context.Context, key string) (string, bool, error) {
	var errs []error
	for _, p := range c {
		if p == nil {
			continue
		}
		v, ok, err := p.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return v, true, nil
		}
	}
	return "", false, errors.Join(errs...)
}

var (
	_ Provider = (*MapProvider)(nil)
	_ Provider = EnvProvider{}
	_ Provider = ChainProvider(nil)
	_ Provider = ProviderFunc(nil)
)
