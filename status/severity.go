package status

import "strings"

// Status is the severity reported by a check result.
type Status int

const (
	// StatusInfo is purely informational.
	StatusInfo Status = iota
	// StatusOK indicates the check passed.
	StatusOK
	// StatusWarning indicates the system works but needs attention.
	StatusWarning
	// StatusError indicates a failure that affects some functionality.
	StatusError
	// StatusCritical indicates a failure that affects the whole system.
	StatusCritical
	// StatusUnknown indicates the check could not determine a status.
	StatusUnknown
)

// Statuses lists every canonical status in declaration order.
var Statuses = []Status{
	StatusInfo,
	StatusOK,
	StatusWarning,
	StatusError,
	StatusCritical,
	StatusUnknown,
}

// String returns the canonical name of the status.
// Values outside the known set render as "unknown".
func (s Status) String() string {
	switch s {
	case StatusInfo:
		return "info"
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Canonical maps unmapped values to StatusUnknown.
func (s Status) Canonical() Status {
	if s < StatusInfo || s > StatusUnknown {
		return StatusUnknown
	}
	return s
}

// ParseStatus parses a canonical status name. Unrecognized names map to
// StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return StatusInfo
	case "ok":
		return StatusOK
	case "warning":
		return StatusWarning
	case "error":
		return StatusError
	case "critical":
		return StatusCritical
	default:
		return StatusUnknown
	}
}

// Category groups checks by concern.
type Category string

const (
	CategoryStatus      Category = "status"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
)

// Categories lists every category in source order.
var Categories = []Category{CategoryStatus, CategorySecurity, CategoryPerformance}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStatus, CategorySecurity, CategoryPerformance:
		return true
	default:
		return false
	}
}

// InferCategory derives a category from an opaque implementation identifier.
//
// This is a best-effort fallback for checks that do not implement Typed:
// an identifier containing "security" maps to CategorySecurity, one
// containing "performance" maps to CategoryPerformance, anything else is
// CategoryStatus. Matching is case-insensitive. The heuristic is fragile and
// new checks should implement Typed instead.
func InferCategory(identity string) Category {
	id := strings.ToLower(identity)
	switch {
	case strings.Contains(id, "security"):
		return CategorySecurity
	case strings.Contains(id, "performance"):
		return CategoryPerformance
	default:
		return CategoryStatus
	}
}

// Scope selects which categories a detailed status request covers.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeStatus      Scope = "status"
	ScopeSecurity    Scope = "security"
	ScopePerformance Scope = "performance"
)

// ParseScope parses a scope name. Empty and unrecognized names yield ScopeAll.
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeStatus:
		return ScopeStatus
	case ScopeSecurity:
		return ScopeSecurity
	case ScopePerformance:
		return ScopePerformance
	default:
		return ScopeAll
	}
}

// Categories returns the categories covered by the scope, in source order.
func (s Scope) Categories() []Category {
	switch s {
	case ScopeStatus:
		return []Category{CategoryStatus}
	case ScopeSecurity:
		return []Category{CategorySecurity}
	case ScopePerformance:
		return []Category{CategoryPerformance}
	default:
		return []Category{CategoryStatus, CategorySecurity, CategoryPerformance}
	}
}
