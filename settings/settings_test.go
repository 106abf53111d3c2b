package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		want    Settings
		wantErr error
	}{
		{
			name: "unset uses defaults",
			want: Settings{CacheTTL: 300 * time.Second},
		},
		{
			name:   "all set",
			values: map[string]string{"excludedchecks": "core_cron,tool_mfa", "enablecaching": "1", "cachettl": "120"},
			want:   Settings{ExcludedChecks: "core_cron,tool_mfa", EnableCaching: true, CacheTTL: 120 * time.Second},
		},
		{
			name:   "ttl below minimum is clamped",
			values: map[string]string{"cachettl": "10"},
			want:   Settings{CacheTTL: 60 * time.Second},
		},
		{
			name:   "ttl as duration",
			values: map[string]string{"cachettl": "10m"},
			want:   Settings{CacheTTL: 10 * time.Minute},
		},
		{
			name:    "bad bool keeps default",
			values:  map[string]string{"enablecaching": "maybe", "excludedchecks": "a"},
			want:    Settings{ExcludedChecks: "a", CacheTTL: 300 * time.Second},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad ttl keeps default",
			values:  map[string]string{"cachettl": "soon", "enablecaching": "yes"},
			want:    Settings{EnableCaching: true, CacheTTL: 300 * time.Second},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(context.Background(), NewMapProvider(tt.values))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_NilProvider(t *testing.T) {
	got, err := Load(context.Background(), nil)
	if err != nil || got != Defaults() {
		t.Errorf("Load(nil) = (%+v, %v)", got, err)
	}
}

func TestLoad_ProviderErrorIsLenient(t *testing.T) {
	storeDown := errors.New("store down")
	p := ProviderFunc(func(ctx context.Context, key string) (string, bool, error) {
		if key == KeyExcludedChecks {
			return "", false, storeDown
		}
		if key == KeyEnableCaching {
			return "true", true, nil
		}
		return "", false, nil
	})

	got, err := Load(context.Background(), p)
	if !errors.Is(err, storeDown) {
		t.Fatalf("Load() error = %v, want %v", err, storeDown)
	}
	if got.ExcludedChecks != "" || !got.EnableCaching || got.CacheTTL != 300*time.Second {
		t.Errorf("Load() = %+v", got)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on", " t "} {
		if b, err := ParseBool(v); err != nil || !b {
			t.Errorf("ParseBool(%q) = (%v, %v), want true", v, b, err)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "off", "f"} {
		if b, err := ParseBool(v); err != nil || b {
			t.Errorf("ParseBool(%q) = (%v, %v), want false", v, b, err)
		}
	}
	if _, err := ParseBool("2"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ParseBool(2) error = %v", err)
	}
}

func TestParseTTL(t *testing.T) {
	tests := map[string]time.Duration{
		"":      300 * time.Second,
		"0":     300 * time.Second,
		"-5":    300 * time.Second,
		"59":    60 * time.Second,
		"60":    60 * time.Second,
		"3600":  time.Hour,
		"90s":   90 * time.Second,
		"1h30m": 90 * time.Minute,
	}
	for in, want := range tests {
		got, err := ParseTTL(in)
		if err != nil || got != want {
			t.Errorf("ParseTTL(%q) = (%v, %v), want %v", in, got, err, want)
		}
	}
}
