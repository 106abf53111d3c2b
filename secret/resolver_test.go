package secret

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name     string
	values   map[string]string
	resolve  func(ref string) (string, error)
	closeErr error
	closed   bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.resolve != nil {
		return s.resolve(ref)
	}
	return s.values[ref], nil
}

func (s *stubProvider) Close() error {
	s.closed = true
	return s.closeErr
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		ref      string
		ok       bool
	}{
		{"secretref:file:/run/secrets/jwt", "file", "/run/secrets/jwt", true},
		{"secretref:env:JWT_KEY", "env", "JWT_KEY", true},
		{"secretref:env:", "", "", false},
		{"secretref::ref", "", "", false},
		{"plain-value", "", "", false},
	}
	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.in)
		if provider != tt.provider || ref != tt.ref || ok != tt.ok {
			t.Errorf("ParseSecretRef(%q) = (%q, %q, %v)", tt.in, provider, ref, ok)
		}
	}
}

func TestResolver_ResolveValue(t *testing.T) {
	t.Setenv("STATUSCHECK_ENV", "prod")
	stub := &stubProvider{name: "stub", values: map[string]string{"alpha": "one", "empty": ""}}

	tests := []struct {
		name    string
		strict  bool
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", strict: true, in: "core_cron,core_mail", want: "core_cron,core_mail"},
		{name: "full ref", strict: true, in: "secretref:stub:alpha", want: "one"},
		{name: "inline ref", strict: true, in: "Bearer secretref:stub:alpha", want: "Bearer one"},
		{name: "env then ref", strict: true, in: "${STATUSCHECK_ENV}-secretref:stub:alpha", want: "prod-one"},
		{name: "strict empty", strict: true, in: "secretref:stub:empty", wantErr: ErrEmptySecret},
		{name: "lenient empty", strict: false, in: "secretref:stub:empty", want: ""},
		{name: "unknown provider", strict: true, in: "secretref:vault:x", wantErr: ErrProviderNotRegistered},
		{name: "missing env", strict: true, in: "${STATUSCHECK_UNSET_VAR}", wantErr: ErrMissingEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.strict, stub)
			got, err := r.ResolveValue(context.Background(), tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveValue() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_NilOnlyExpandsEnv(t *testing.T) {
	t.Setenv("X", "y")
	var r *Resolver

	got, err := r.ResolveValue(context.Background(), "${X} secretref:stub:alpha")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "y secretref:stub:alpha" {
		t.Errorf("ResolveValue() = %q", got)
	}
}

func TestResolver_InlineRefs(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"alpha": "one", "beta": "two"}})

	got, err := r.ResolveValue(context.Background(), "Bearer secretref:stub:alpha and secretref:stub:beta")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "Bearer one and two" {
		t.Errorf("ResolveValue() = %q, want %q", got, "Bearer one and two")
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	explode := errors.New("explode")
	r := NewResolver(true, &stubProvider{name: "stub", resolve: func(ref string) (string, error) {
		return "", explode
	}})

	if _, err := r.ResolveValue(context.Background(), "secretref:stub:boom"); !errors.Is(err, explode) {
		t.Fatalf("ResolveValue() error = %v, want %v", err, explode)
	}
}

func TestResolver_Close(t *testing.T) {
	closeErr := errors.New("close failed")
	ok := &stubProvider{name: "ok"}
	bad := &stubProvider{name: "bad", closeErr: closeErr}

	err := NewResolver(true, ok, bad).Close()
	if !errors.Is(err, closeErr) {
		t.Fatalf("Close() error = %v, want %v", err, closeErr)
	}
	if !ok.closed || !bad.closed {
		t.Error("every provider should be closed")
	}
}
