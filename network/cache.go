package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultFreshness applies to responses without explicit expiry.
const defaultFreshness = 5 * time.Minute

// CacheEntry is a cached response with its freshness information.
type CacheEntry struct {
	Response  *Response
	ETag      string
	LastMod   string
	MaxAge    time.Duration
	HasMaxAge bool // max-age present, including 0
	Expires   time.Time
	CachedAt  time.Time
}

// IsExpired reports whether the entry is stale.
func (e *CacheEntry) IsExpired() bool {
	if e.HasMaxAge {
		return time.Since(e.CachedAt) >= e.MaxAge
	}
	if !e.Expires.IsZero() {
		return time.Now().After(e.Expires)
	}
	return time.Since(e.CachedAt) > defaultFreshness
}

// Cache is an in-memory response cache keyed by URL.
type Cache struct {
	entries map[string]*CacheEntry
	maxSize int
	mu      sync.RWMutex
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{entries: make(map[string]*CacheEntry), maxSize: maxSize}
}

// Get returns the entry for url, fresh or not.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

// Set stores resp unless the headers forbid it (no-store, no-cache).
func (c *Cache) Set(url string, resp *Response, headers http.Header) {
	cc := headers.Get("Cache-Control")
	directives := splitDirectives(cc)
	if directives["no-store"] || directives["no-cache"] {
		return
	}
	entry := &CacheEntry{
		Response: resp,
		CachedAt: time.Now(),
		ETag:     headers.Get("ETag"),
		LastMod:  headers.Get("Last-Modified"),
	}
	entry.MaxAge, entry.HasMaxAge = maxAge(cc)
	if !entry.HasMaxAge {
		if t, err := http.ParseTime(headers.Get("Expires")); err == nil {
			entry.Expires = t
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[url] = entry
}

// Delete removes url from the cache.
func (c *Cache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// must be called with c.mu held
func (c *Cache) evictOldest() {
	var oldestURL string
	var oldest time.Time
	for url, entry := range c.entries {
		if oldestURL == "" || entry.CachedAt.Before(oldest) {
			oldestURL, oldest = url, entry.CachedAt
		}
	}
	delete(c.entries, oldestURL)
}

func maxAge(cacheControl string) (time.Duration, bool) {
	for _, d := range strings.Split(cacheControl, ",") {
		d = strings.TrimSpace(d)
		if v, ok := strings.CutPrefix(d, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				return time.Duration(secs) * time.Second, true
			}
		}
	}
	return 0, false
}

func splitDirectives(value string) map[string]bool {
	out := make(map[string]bool)
	for _, d := range strings.Split(value, ",") {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			out[d] = true
		}
	}
	return out
}
