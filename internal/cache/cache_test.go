package cache

import (
	"testing"
	"time"
)

func TestGenerateCacheKey(t *testing.T) {
	if GenerateCacheKey("Paris") != GenerateCacheKey(" paris ") {
		t.Error("keys should ignore case and surrounding space")
	}
	if GenerateCacheKey("Paris") == GenerateCacheKey("Rome") {
		t.Error("different locations share a key")
	}
	if GenerateCacheKey("ab", "c") == GenerateCacheKey("a", "bc") {
		t.Error("part boundaries should affect the key")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New[string](10 * time.Minute)
	c.now = func() time.Time { return now }

	c.Put("k", "sunny")
	if got, ok := c.Get("k"); !ok || got != "sunny" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}

	now = now.Add(10 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestTTLCacheDisabled(t *testing.T) {
	c := New[string](0)
	c.Put("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Error("zero TTL cache should never hit")
	}

	var nilCache *TTLCache[string]
	if nilCache.Enabled() {
		t.Error("nil cache reports enabled")
	}
	if _, ok := nilCache.Get("k"); ok {
		t.Error("nil cache hit")
	}
}
