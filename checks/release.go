package checks

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-version"

	"github.com/jonwraymond/statuscheck/status"
)

// ReleaseCheck compares the running platform version against supported
// releases. Below Minimum is an error; below Recommended is a warning.
type ReleaseCheck struct {
	current     string
	minimum     *version.Version
	recommended *version.Version
	upgradeURL  *url.URL
}

// ReleaseOption configures a ReleaseCheck.
type ReleaseOption func(*ReleaseCheck)

// WithRecommended sets the release below which a warning is reported.
func WithRecommended(v *version.Version) ReleaseOption {
	return func(c *ReleaseCheck) { c.recommended = v }
}

// WithUpgradeURL sets the action link attached to non-ok results.
func WithUpgradeURL(u *url.URL) ReleaseOption {
	return func(c *ReleaseCheck) { c.upgradeURL = u }
}

// NewReleaseCheck checks current against minimum. A nil minimum accepts any
// parseable version.
func NewReleaseCheck(current string, minimum *version.Version, opts ...ReleaseOption) *ReleaseCheck {
	c := &ReleaseCheck{current: current, minimum: minimum}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ref returns "platform_release".
func (c *ReleaseCheck) Ref() string { return "platform_release" }

// Name returns the display name.
func (c *ReleaseCheck) Name() string { return "Platform release" }

// Component returns "platform".
func (c *ReleaseCheck) Component() string { return "platform" }

// Type returns status.CategoryStatus.
func (c *ReleaseCheck) Type() status.Category { return status.CategoryStatus }

// Result grades the running version.
func (c *ReleaseCheck) Result(context.Context) (status.Result, error) {
	if c.current == "" {
		return status.Unknown("platform version not reported"), nil
	}
	running, err := version.NewVersion(c.current)
	if err != nil {
		return status.Unknown(fmt.Sprintf("unrecognized platform version %q", c.current)), nil
	}

	switch {
	case c.minimum != nil && running.LessThan(c.minimum):
		return status.Error(fmt.Sprintf("release %s is no longer supported", running)).
			WithDetails(fmt.Sprintf("minimum supported release is %s", c.minimum)).
			WithLink(c.upgradeURL), nil
	case c.recommended != nil && running.LessThan(c.recommended):
		return status.Warning(fmt.Sprintf("release %s is out of date", running)).
			WithDetails(fmt.Sprintf("recommended release is %s", c.recommended)).
			WithLink(c.upgradeURL), nil
	default:
		return status.OK(fmt.Sprintf("release %s is supported", running)), nil
	}
}

var (
	_ status.Check = (*ReleaseCheck)(nil)
	_ status.Typed = (*ReleaseCheck)(nil)
)
