package status

import (
	"context"
	"net/url"
)

// Result is the outcome of running a Check.
type Result interface {
	// Status is the severity of the outcome.
	Status() Status

	// Summary is a short human-readable description.
	Summary() string
}

// Detailed is implemented by results that carry optional detail text.
type Detailed interface {
	Details() string
}

// Linked is implemented by results that can point at a remediation page.
// A nil URL means no link.
type Linked interface {
	ActionLink() *url.URL
}

// Check is a named diagnostic probe owned by a platform component.
type Check interface {
	// Ref is the identifier of the check, unique within a Source.
	Ref() string

	// Name is the display name.
	Name() string

	// Component is the owning component.
	Component() string

	// Result computes the outcome. It may be expensive and is invoked at
	// most once per check per request.
	Result(ctx context.Context) (Result, error)
}

// Typed is implemented by checks that declare their category.
type Typed interface {
	Type() Category
}

// Identified is implemented by checks that expose an implementation
// identifier for category inference. Checks without it are identified by
// their dynamic type name.
type Identified interface {
	Identity() string
}

// Outcome is the default Result implementation.
type Outcome struct {
	// Level is the severity.
	Level Status

	// Message is the summary text.
	Message string

	// Detail is optional detail text.
	Detail string

	// Link is an optional remediation link.
	Link *url.URL
}

// Status returns the severity.
func (o Outcome) Status() Status { return o.Level }

// Summary returns the summary text.
func (o Outcome) Summary() string { return o.Message }

// Details returns the detail text.
func (o Outcome) Details() string { return o.Detail }

// ActionLink returns the remediation link, or nil.
func (o Outcome) ActionLink() *url.URL { return o.Link }

// WithDetails returns a copy of the outcome with detail text set.
func (o Outcome) WithDetails(details string) Outcome {
	o.Detail = details
	return o
}

// WithLink returns a copy of the outcome with a remediation link set.
func (o Outcome) WithLink(link *url.URL) Outcome {
	o.Link = link
	return o
}

// OK creates an ok outcome.
func OK(summary string) Outcome { return Outcome{Level: StatusOK, Message: summary} }

// Info creates an info outcome.
func Info(summary string) Outcome { return Outcome{Level: StatusInfo, Message: summary} }

// Warning creates a warning outcome.
func Warning(summary string) Outcome { return Outcome{Level: StatusWarning, Message: summary} }

// Error creates an error outcome.
func Error(summary string) Outcome { return Outcome{Level: StatusError, Message: summary} }

// Critical creates a critical outcome.
func Critical(summary string) Outcome { return Outcome{Level: StatusCritical, Message: summary} }

// Unknown creates an unknown outcome.
func Unknown(summary string) Outcome { return Outcome{Level: StatusUnknown, Message: summary} }

// CheckFunc adapts an ordinary function to the Check interface.
type CheckFunc struct {
	ref       string
	name      string
	component string
	category  Category
	fn        func(context.Context) (Result, error)
}

// NewCheckFunc creates a typed Check backed by fn.
func NewCheckFunc(ref, name, component string, category Category, fn func(context.Context) (Result, error)) *CheckFunc {
	return &CheckFunc{
		ref:       ref,
		name:      name,
		component: component,
		category:  category,
		fn:        fn,
	}
}

// Ref returns the check identifier.
func (f *CheckFunc) Ref() string { return f.ref }

// Name returns the display name.
func (f *CheckFunc) Name() string { return f.name }

// Component returns the owning component.
func (f *CheckFunc) Component() string { return f.component }

// Type returns the declared category.
func (f *CheckFunc) Type() Category { return f.category }

// Result runs the wrapped function.
func (f *CheckFunc) Result(ctx context.Context) (Result, error) {
	return f.fn(ctx)
}

var (
	_ Result   = Outcome{}
	_ Detailed = Outcome{}
	_ Linked   = Outcome{}
	_ Check    = (*CheckFunc)(nil)
	_ Typed    = (*CheckFunc)(nil)
)
