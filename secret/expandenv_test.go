package secret

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("PRESENT", "ok")
	t.Setenv("X", "y")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a=${PRESENT}", want: "a=ok"},
		{in: "a=$PRESENT", want: "a=ok"},
		{in: "$$${X}", want: "$y"},
		{in: "no vars", want: "no vars"},
		{in: "a=${PRESENT} b=${MISSING}", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ExpandEnvStrict(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMissingEnv) {
				t.Errorf("ExpandEnvStrict(%q) error = %v, want ErrMissingEnv", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ExpandEnvStrict(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestExpandEnvStrict_ListsMissingOnce(t *testing.T) {
	_, err := ExpandEnvStrict("${ZZ_MISSING} ${AA_MISSING} ${ZZ_MISSING}")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasSuffix(err.Error(), "AA_MISSING, ZZ_MISSING") {
		t.Errorf("error = %v", err)
	}
}
