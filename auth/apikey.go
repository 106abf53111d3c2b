package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIKeyHeader carries the API key.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey describes one accepted key. Only its hash is kept.
type APIKey struct {
	// ID names the key in logs and claims.
	ID string `yaml:"id"`

	// Hash is the hex SHA-256 of the key (see HashAPIKey).
	Hash string `yaml:"hash"`

	// Principal is the identity associated with this key.
	Principal string `yaml:"principal"`

	// Roles are the roles granted to this key.
	Roles []string `yaml:"roles"`

	// ExpiresAt is when this key expires (zero = never).
	ExpiresAt time.Time `yaml:"expires_at"`
}

// APIKeyAuthenticator validates API keys against a fixed set of hashes.
type APIKeyAuthenticator struct {
	header string
	now    func() time.Time

	mu   sync.RWMutex
	keys []APIKey
}

// NewAPIKeyAuthenticator creates an authenticator reading header, or
// DefaultAPIKeyHeader when header is empty.
func NewAPIKeyAuthenticator(header string, keys ...APIKey) *APIKeyAuthenticator {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKeyAuthenticator{header: header, now: time.Now, keys: keys}
}

// Add accepts another key.
func (a *APIKeyAuthenticator) Add(key APIKey) {
	a.mu.Lock()
	a.keys = append(a.keys, key)
	a.mu.Unlock()
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string {
	return "api_key"
}

// Supports returns true if the request contains an API key header.
func (a *APIKeyAuthenticator) Supports(header http.Header) bool {
	return header.Get(a.header) != ""
}

// Authenticate validates the API key. Every stored hash is compared in
// constant time.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, header http.Header) (*Identity, error) {
	raw := strings.TrimSpace(header.Get(a.header))
	if raw == "" {
		return nil, ErrMissingCredentials
	}
	hash := HashAPIKey(raw)

	a.mu.RLock()
	var match *APIKey
	for i := range a.keys {
		if subtle.ConstantTimeCompare([]byte(a.keys[i].Hash), []byte(hash)) == 1 {
			match = &a.keys[i]
		}
	}
	a.mu.RUnlock()

	if match == nil {
		return nil, ErrInvalidCredentials
	}
	if !match.ExpiresAt.IsZero() && a.now().After(match.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &Identity{
		Principal: match.Principal,
		Roles:     append([]string(nil), match.Roles...),
		Method:    AuthMethodAPIKey,
		Claims:    map[string]any{"key_id": match.ID},
		ExpiresAt: match.ExpiresAt,
	}, nil
}

// HashAPIKey hashes an API key using SHA-256 for storage.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)

// ParseAPIKeys decodes a YAML key list:
//
//	keys:
//	  - id: grafana
//	    hash: 5e88...
//	    principal: grafana
//	    roles: [monitor]
func ParseAPIKeys(data []byte) ([]APIKey, error) {
	var doc struct {
		Keys []APIKey `yaml:"keys"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("auth: parse api keys: %w", err)
	}
	for i, k := range doc.Keys {
		if k.Hash == "" || k.Principal == "" {
			return nil, fmt.Errorf("auth: api key %d: hash and principal are required", i)
		}
		doc.Keys[i].Hash = strings.ToLower(k.Hash)
	}
	return doc.Keys, nil
}
