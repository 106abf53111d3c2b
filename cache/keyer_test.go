package cache

import (
	"strings"
	"testing"
)

func TestKeyer_DeterministicForMaps(t *testing.T) {
	keyer := NewDefaultKeyer()

	inputs := []map[string]any{
		{"scope": "all", "excluded": "a,b", "platform": "4.3"},
		{"platform": "4.3", "scope": "all", "excluded": "a,b"},
		{"excluded": "a,b", "platform": "4.3", "scope": "all"},
	}

	var first string
	for i, in := range inputs {
		key, err := keyer.Key("status", in)
		if err != nil {
			t.Fatalf("Key() error = %v", err)
		}
		if i == 0 {
			first = key
			continue
		}
		if key != first {
			t.Errorf("key %d = %s, want %s", i, key, first)
		}
	}
}

func TestKeyer_DistinguishesInputs(t *testing.T) {
	keyer := NewDefaultKeyer()

	tests := []struct {
		name string
		nsA  string
		inA  any
		nsB  string
		inB  any
	}{
		{"namespace", "status", map[string]any{"scope": "all"}, "health", map[string]any{"scope": "all"}},
		{"exclusions", "status", map[string]any{"excluded": "a"}, "status", map[string]any{"excluded": "b"}},
		{"slice order", "status", []any{"a", "b"}, "status", []any{"b", "a"}},
		{"nested", "status", map[string]any{"x": map[string]any{"y": 1}}, "status", map[string]any{"x": map[string]any{"y": 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := keyer.Key(tt.nsA, tt.inA)
			if err != nil {
				t.Fatal(err)
			}
			b, err := keyer.Key(tt.nsB, tt.inB)
			if err != nil {
				t.Fatal(err)
			}
			if a == b {
				t.Errorf("keys collide: %s", a)
			}
		})
	}
}

func TestKeyer_KeyFormat(t *testing.T) {
	key, err := NewDefaultKeyer().Key("status/all", nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "statuscheck" || parts[1] != "status/all" || len(parts[2]) != 16 {
		t.Errorf("unexpected key format: %s", key)
	}
}

func TestKeyer_RejectsOversizedNamespace(t *testing.T) {
	_, err := NewDefaultKeyer().Key(strings.Repeat("n", MaxKeyLength), nil)
	if err == nil {
		t.Fatal("expected error for oversized key")
	}
}
