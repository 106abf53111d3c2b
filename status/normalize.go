package status

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonwraymond/statuscheck/observe"
)

// NormalizedCheck is the stable per-check projection returned to callers.
type NormalizedCheck struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`
	Summary    string  `json:"summary"`
	Details    string  `json:"details"`
	Component  string  `json:"component"`
	ActionLink *string `json:"actionlink"`

	// Level is the canonical severity behind Status.
	Level Status `json:"-"`
}

// Normalizer turns a Check into a NormalizedCheck, invoking its Result
// exactly once and isolating any failure to that check.
type Normalizer struct {
	baseURL *url.URL
	mw      *observe.Middleware
}

// NewNormalizer creates a Normalizer. Relative action links are resolved
// against baseURL when it is non-nil. Every evaluation is wrapped by mw; a
// nil mw records nothing.
func NewNormalizer(baseURL *url.URL, mw *observe.Middleware) *Normalizer {
	if mw == nil {
		mw = observe.NewMiddleware(nil, nil, nil)
	}
	return &Normalizer{baseURL: baseURL, mw: mw}
}

// CategoryOf returns the check's declared category, or infers one from its
// identity when it does not declare a valid one.
func CategoryOf(check Check) Category {
	if typed, ok := check.(Typed); ok {
		if c := typed.Type(); c.Valid() {
			return c
		}
	}
	if id, ok := check.(Identified); ok {
		return InferCategory(id.Identity())
	}
	return InferCategory(fmt.Sprintf("%T", check))
}

// Normalize evaluates check and projects its result.
//
// Any error or panic from the check is returned as a *NormalizeError and
// never escapes as a panic.
func (n *Normalizer) Normalize(ctx context.Context, check Check) (nc NormalizedCheck, err error) {
	var ref string
	defer func() {
		if r := recover(); r != nil {
			nc = NormalizedCheck{}
			err = &NormalizeError{Ref: ref, Err: fmt.Errorf("%w: %v", ErrCheckPanicked, r)}
		}
	}()

	ref = check.Ref()
	category := CategoryOf(check)
	meta := observe.CheckMeta{
		Ref:       ref,
		Name:      check.Name(),
		Component: check.Component(),
		Category:  string(category),
	}

	var (
		result Result
		level  Status
	)
	eval := n.mw.Wrap(func(ctx context.Context, _ observe.CheckMeta) (string, error) {
		r, l, err := invoke(ctx, check)
		if err != nil {
			return "", err
		}
		result, level = r, l
		return l.String(), nil
	})
	if _, err := eval(ctx, meta); err != nil {
		return NormalizedCheck{}, &NormalizeError{Ref: ref, Err: err}
	}

	return NormalizedCheck{
		ID:         ref,
		Name:       meta.Name,
		Type:       meta.Category,
		Status:     level.String(),
		Summary:    result.Summary(),
		Details:    detailsOf(result),
		Component:  meta.Component,
		ActionLink: n.actionLink(result),
		Level:      level,
	}, nil
}

// invoke calls check.Result once and reads its canonical status. Panics and
// nil results become errors.
func invoke(ctx context.Context, check Check) (result Result, level Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, level = nil, StatusUnknown
			err = fmt.Errorf("%w: %v", ErrCheckPanicked, r)
		}
	}()

	result, err = check.Result(ctx)
	if err != nil {
		return nil, StatusUnknown, fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}
	if result == nil {
		return nil, StatusUnknown, ErrNilResult
	}
	return result, result.Status().Canonical(), nil
}

func detailsOf(result Result) string {
	if d, ok := result.(Detailed); ok {
		return d.Details()
	}
	return ""
}

func (n *Normalizer) actionLink(result Result) *string {
	linked, ok := result.(Linked)
	if !ok {
		return nil
	}
	u := linked.ActionLink()
	if u == nil {
		return nil
	}
	if !u.IsAbs() && n.baseURL != nil {
		u = n.baseURL.ResolveReference(u)
	}
	s := u.String()
	return &s
}
