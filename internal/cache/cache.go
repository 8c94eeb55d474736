package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

// CachedResponse is a stored value and when it was stored.
type CachedResponse[V any] struct {
	Response  V
	Timestamp time.Time
}

// GenerateCacheKey hashes the parts case-insensitively, so "Paris" and
// "paris" share an entry.
func GenerateCacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// TTLCache keeps values for a fixed time. A zero TTL disables it.
type TTLCache[V any] struct {
	ttl     time.Duration
	entries sync.Map
	now     func() time.Time
}

// New returns a cache whose entries expire after ttl.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{ttl: ttl, now: time.Now}
}

// Enabled reports whether the cache stores anything.
func (c *TTLCache[V]) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a live entry for key.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}
	val, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}
	cached := val.(CachedResponse[V])
	if c.now().Sub(cached.Timestamp) >= c.ttl {
		c.entries.Delete(key)
		return zero, false
	}
	return cached.Response, true
}

// Put stores response under key.
func (c *TTLCache[V]) Put(key string, response V) {
	if !c.Enabled() {
		return
	}
	c.entries.Store(key, CachedResponse[V]{
		Response:  response,
		Timestamp: c.now(),
	})
}
