package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonwraymond/statuscheck/observe"
)

// Gate is HTTP middleware that authenticates the caller and requires a
// capability before passing the request on.
type Gate struct {
	authn      Authenticator
	authz      Authorizer
	capability Capability
	anonymous  bool
	logger     observe.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithCapability sets the required capability.
// Default: CapabilityViewStatus.
func WithCapability(c Capability) GateOption {
	return func(g *Gate) { g.capability = c }
}

// WithAnonymous treats requests without credentials as AnonymousIdentity
// instead of rejecting them, leaving the decision to the authorizer.
func WithAnonymous() GateOption {
	return func(g *Gate) { g.anonymous = true }
}

// WithLogger sets the logger for denied requests.
func WithLogger(l observe.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// NewGate creates a Gate. A nil authorizer permits every authenticated caller.
func NewGate(authn Authenticator, authz Authorizer, opts ...GateOption) *Gate {
	g := &Gate{
		authn:      authn,
		authz:      authz,
		capability: CapabilityViewStatus,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.authz == nil {
		g.authz = AllowAllAuthorizer{}
	}
	if g.logger == nil {
		g.logger = observe.NopLogger()
	}
	return g
}

// Wrap returns next guarded by the gate. The caller's identity is attached
// to the request context.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := g.authenticate(r)
		if err != nil && !IsAuthError(err) {
			g.logger.Error(ctx, "authenticator failed",
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "error", Value: err.Error()},
			)
			deny(w, http.StatusInternalServerError, "authentication unavailable")
			return
		}
		if err != nil {
			g.logger.Warn(ctx, "request unauthenticated",
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "error", Value: err.Error()},
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="statuscheck"`)
			deny(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := g.authz.Authorize(ctx, id, g.capability); err != nil {
			g.logger.Warn(ctx, "request forbidden",
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "principal", Value: id.Principal},
				observe.Field{Key: "capability", Value: string(g.capability)},
			)
			deny(w, http.StatusForbidden, "missing capability "+string(g.capability))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
	})
}

func (g *Gate) authenticate(r *http.Request) (*Identity, error) {
	if g.authn == nil || !g.authn.Supports(r.Header) {
		if g.anonymous {
			return AnonymousIdentity(), nil
		}
		return nil, ErrMissingCredentials
	}

	id, err := g.authn.Authenticate(r.Context(), r.Header)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrInvalidCredentials
	}
	return id, nil
}

// IsAuthError reports whether err is a credential or authorization failure
// rather than an internal error.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrForbidden)
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
