package status

import (
	"errors"
	"fmt"
)

var (
	// ErrCheckFailed indicates a check's result accessor returned an error.
	ErrCheckFailed = errors.New("status: check failed")

	// ErrCheckPanicked indicates a check's result accessor panicked.
	ErrCheckPanicked = errors.New("status: check panicked")

	// ErrNilResult indicates a check returned neither a result nor an error.
	ErrNilResult = errors.New("status: check returned nil result")

	// ErrConfigParse indicates a malformed exclusion configuration.
	ErrConfigParse = errors.New("status: malformed exclusion configuration")

	// ErrNilSource indicates an Aggregator was built without a Source.
	ErrNilSource = errors.New("status: source is nil")

	// ErrDuplicateRef indicates a check ref is already registered.
	ErrDuplicateRef = errors.New("status: duplicate check ref")

	// ErrInvalidCategory indicates registration under an unknown category.
	ErrInvalidCategory = errors.New("status: invalid category")

	// ErrNilCheck indicates registration of a nil check.
	ErrNilCheck = errors.New("status: check is nil")

	// ErrSourceFailed indicates the check source could not list checks.
	ErrSourceFailed = errors.New("status: check source failed")
)

// NormalizeError records why a single check could not be normalized.
// It never aborts an aggregation; the check is omitted instead.
type NormalizeError struct {
	// Ref is the failing check's identifier.
	Ref string

	// Err is the underlying failure.
	Err error
}

// Error returns the error message.
func (e *NormalizeError) Error() string {
	return fmt.Sprintf("status: check %q: %v", e.Ref, e.Err)
}

// Unwrap returns the underlying failure.
func (e *NormalizeError) Unwrap() error {
	return e.Err
}
