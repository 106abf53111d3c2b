package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	if val, ok := c.Get(ctx, "missing"); ok || val != nil {
		t.Fatalf("Get on empty cache = (%q, %v), want miss", val, ok)
	}

	value := []byte(`{"healthy":true}`)
	if err := c.Set(ctx, "status", value, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "status")
	if !ok || !bytes.Equal(got, value) {
		t.Fatalf("Get = (%q, %v), want (%q, true)", got, ok, value)
	}

	if err := c.Delete(ctx, "status"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get(ctx, "status"); ok {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "status"); err != nil {
		t.Errorf("Delete of missing key should be idempotent, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache(DefaultPolicy(), WithClock(clock.Now))
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 2*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(119 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry should expire at its deadline")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len() = %d", c.Len())
	}
}

func TestMemoryCache_MinTTLClamp(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache(DefaultPolicy(), WithClock(clock.Now))
	ctx := context.Background()

	// 5s is below the 60s minimum and is raised to it.
	if err := c.Set(ctx, "k", []byte("v"), 5*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry should live for MinTTL")
	}
	clock.Advance(30 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry should expire after MinTTL")
	}
}

func TestMemoryCache_ZeroTTL(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := c.Set(ctx, "k", []byte("v"), ttl); err != nil {
			t.Fatalf("Set(ttl=%v) failed: %v", ttl, err)
		}
		if _, ok := c.Get(ctx, "k"); ok {
			t.Errorf("ttl=%v should not cache", ttl)
		}
	}
}

func TestMemoryCache_InvalidKey(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	err := c.Set(context.Background(), "bad\nkey", []byte("v"), time.Minute)
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Set error = %v, want ErrInvalidKey", err)
	}
}

func TestMemoryCache_SetOverwrite(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("first"), time.Minute)
	_ = c.Set(ctx, "k", []byte("second"), time.Minute)

	got, _ := c.Get(ctx, "k")
	if string(got) != "second" {
		t.Errorf("Get = %q, want second", got)
	}
}

func TestMemoryCache_Purge(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()
	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				switch j % 3 {
				case 0:
					_ = c.Set(ctx, "shared", []byte("v"), time.Minute)
				case 1:
					_, _ = c.Get(ctx, "shared")
				case 2:
					_ = c.Delete(ctx, "shared")
				}
			}
		}(i)
	}
	wg.Wait()
}
