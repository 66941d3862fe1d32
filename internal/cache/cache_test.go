package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	if !ok || v.(string) != "v" {
		t.Errorf("Get = %v, %v; want v, true", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c := New()
	if _, ok := c.Get("nope"); ok {
		t.Error("missing key should not be found")
	}
}

func TestExpiry(t *testing.T) {
	c := New()
	c.Set("k", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestKeyForURLStable(t *testing.T) {
	c := New()
	a := c.KeyForURL("https://example.com/a")
	b := c.KeyForURL("https://example.com/a")
	other := c.KeyForURL("https://example.com/b")

	if a != b {
		t.Error("same URL must map to the same key")
	}
	if a == other {
		t.Error("different URLs must map to different keys")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}

func TestCleanup(t *testing.T) {
	c := New()
	c.Set("old", 1, -time.Second)
	c.Set("fresh", 2, time.Hour)
	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.items["old"]; ok {
		t.Error("cleanup should drop expired entries")
	}
	if _, ok := c.items["fresh"]; !ok {
		t.Error("cleanup should keep live entries")
	}
}
