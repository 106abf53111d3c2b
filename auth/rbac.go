package auth

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy maps roles to capabilities.
type Policy struct {
	// Roles defines role configurations.
	Roles map[string]Role `yaml:"roles"`

	// DefaultRole is assigned to identities without explicit roles,
	// including anonymous callers.
	DefaultRole string `yaml:"default_role"`
}

// Role lists the capabilities a role grants.
type Role struct {
	// Capabilities are capability patterns. "*" grants everything and a
	// trailing "*" matches by prefix, e.g. "report/*".
	Capabilities []string `yaml:"capabilities"`

	// Inherits lists roles this role inherits from.
	Inherits []string `yaml:"inherits"`
}

// DefaultPolicy grants CapabilityViewStatus to the "admin" and "monitor"
// roles. Anonymous callers get nothing.
func DefaultPolicy() Policy {
	return Policy{
		Roles: map[string]Role{
			"admin":   {Capabilities: []string{"*"}},
			"monitor": {Capabilities: []string{string(CapabilityViewStatus)}},
		},
	}
}

// RBACAuthorizer grants capabilities through roles.
type RBACAuthorizer struct {
	policy Policy
}

// NewRBACAuthorizer creates a role-based authorizer.
func NewRBACAuthorizer(policy Policy) *RBACAuthorizer {
	return &RBACAuthorizer{policy: policy}
}

// Name returns "rbac".
func (a *RBACAuthorizer) Name() string {
	return "rbac"
}

// Authorize checks whether any of the identity's roles grants capability.
func (a *RBACAuthorizer) Authorize(_ context.Context, id *Identity, capability Capability) error {
	if id == nil {
		return &AuthzError{Capability: capability, Reason: "no identity provided"}
	}

	for _, name := range a.roles(id) {
		for _, pattern := range a.policy.Roles[name].Capabilities {
			if matchCapability(pattern, capability) {
				return nil
			}
		}
	}

	return &AuthzError{
		Subject:    id.Principal,
		Capability: capability,
		Reason:     "no role grants this capability",
	}
}

// roles expands the identity's roles with everything they inherit.
func (a *RBACAuthorizer) roles(id *Identity) []string {
	pending := append([]string(nil), id.Roles...)
	if len(pending) == 0 && a.policy.DefaultRole != "" {
		pending = append(pending, a.policy.DefaultRole)
	}

	seen := make(map[string]bool)
	var out []string
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		out = append(out, current)
		pending = append(pending, a.policy.Roles[current].Inherits...)
	}
	return out
}

func matchCapability(pattern string, capability Capability) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(string(capability), prefix)
	}
	return pattern == string(capability)
}

var _ Authorizer = (*RBACAuthorizer)(nil)

// ParsePolicy decodes a YAML policy document.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("auth: parse policy: %w", err)
	}
	return p, nil
}
