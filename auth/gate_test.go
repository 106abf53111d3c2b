package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func gated(g *Gate) (http.Handler, *string) {
	var principal string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return g.Wrap(next), &principal
}

func TestGate(t *testing.T) {
	keys := NewAPIKeyAuthenticator("",
		APIKey{ID: "mon", Hash: HashAPIKey("monitor-key"), Principal: "nagios", Roles: []string{"monitor"}},
		APIKey{ID: "guest", Hash: HashAPIKey("guest-key"), Principal: "visitor", Roles: []string{"guest"}},
	)
	jwtAuth := NewJWTAuthenticator(JWTConfig{Secret: testSecret})
	token, _ := SignToken(testSecret, "alice", []string{"admin"}, time.Minute)

	g := NewGate(Chain{keys, jwtAuth}, NewRBACAuthorizer(DefaultPolicy()))
	h, principal := gated(g)

	tests := []struct {
		name      string
		header    http.Header
		wantCode  int
		wantPrinc string
	}{
		{"api key with capability", header("X-API-Key", "monitor-key"), http.StatusOK, "nagios"},
		{"jwt admin", header("Authorization", "Bearer "+token), http.StatusOK, "alice"},
		{"api key without capability", header("X-API-Key", "guest-key"), http.StatusForbidden, ""},
		{"bad api key", header("X-API-Key", "wrong"), http.StatusUnauthorized, ""},
		{"bad token", header("Authorization", "Bearer nope"), http.StatusUnauthorized, ""},
		{"no credentials", header(), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*principal = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			req.Header = tt.header
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if *principal != tt.wantPrinc {
				t.Errorf("principal = %q, want %q", *principal, tt.wantPrinc)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 without WWW-Authenticate")
			}
		})
	}
}

func TestGate_Anonymous(t *testing.T) {
	policy := DefaultPolicy()
	policy.DefaultRole = "monitor"

	g := NewGate(NewAPIKeyAuthenticator(""), NewRBACAuthorizer(policy), WithAnonymous())
	h, principal := gated(g)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || *principal != "anonymous" {
		t.Errorf("anonymous request = %d as %q, want 200 as anonymous", rec.Code, *principal)
	}

	strict := NewGate(NewAPIKeyAuthenticator(""), NewRBACAuthorizer(DefaultPolicy()), WithAnonymous())
	h, _ = gated(strict)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous without grant = %d, want 403", rec.Code)
	}
}

func TestGate_CustomCapability(t *testing.T) {
	keys := NewAPIKeyAuthenticator("", APIKey{Hash: HashAPIKey("k"), Principal: "m", Roles: []string{"monitor"}})
	g := NewGate(keys, NewRBACAuthorizer(DefaultPolicy()), WithCapability("config/settings:edit"))
	h, _ := gated(g)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGate_InternalError(t *testing.T) {
	broken := stubAuthenticator{supports: true, err: errors.New("key store offline")}
	h, _ := gated(NewGate(broken, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGate_NilAuthorizerAllows(t *testing.T) {
	ok := stubAuthenticator{supports: true, id: &Identity{Principal: "x"}}
	h, principal := gated(NewGate(ok, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || *principal != "x" {
		t.Errorf("status = %d principal = %q", rec.Code, *principal)
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(&AuthzError{}) || !IsAuthError(ErrTokenExpired) {
		t.Error("IsAuthError() = false for auth failures")
	}
	if IsAuthError(context.Canceled) {
		t.Error("IsAuthError(context.Canceled) = true")
	}
}
