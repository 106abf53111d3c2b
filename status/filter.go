package status

import (
	"sort"
	"strings"
	"unicode"
)

// ExclusionSet is the set of check refs omitted from aggregation.
// Membership is an exact string match against Check.Ref.
type ExclusionSet map[string]struct{}

// ParseExclusions parses a comma-separated list of check refs.
//
// Entries are trimmed and empty entries dropped, so "" yields an empty set.
// A value containing control characters is malformed: ParseExclusions
// returns an empty set together with ErrConfigParse.
func ParseExclusions(raw string) (ExclusionSet, error) {
	set := make(ExclusionSet)
	if strings.TrimSpace(raw) == "" {
		return set, nil
	}
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return make(ExclusionSet), ErrConfigParse
	}

	for _, ref := range strings.Split(raw, ",") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		set[ref] = struct{}{}
	}
	return set, nil
}

// NewExclusionSet builds a set from refs.
func NewExclusionSet(refs ...string) ExclusionSet {
	set := make(ExclusionSet, len(refs))
	for _, ref := range refs {
		set[ref] = struct{}{}
	}
	return set
}

// Contains reports whether ref is excluded.
func (s ExclusionSet) Contains(ref string) bool {
	_, ok := s[ref]
	return ok
}

// Refs returns the excluded refs in sorted order.
func (s ExclusionSet) Refs() []string {
	refs := make([]string, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Filter returns the checks whose ref is not in excluded, preserving order.
// Excluded checks are dropped before their result is ever computed.
func Filter(checks []Check, excluded ExclusionSet) []Check {
	out := make([]Check, 0, len(checks))
	for _, check := range checks {
		if excluded.Contains(check.Ref()) {
			continue
		}
		out = append(out, check)
	}
	return out
}
