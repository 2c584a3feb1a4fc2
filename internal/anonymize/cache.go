package anonymize

import "sync"

// Cache keeps replacement values consistent within one run: the same PII
// value always maps to the same synthetic value. Callers share one cache
// per document (or per CSV worker), never globally.
type Cache struct {
	mu sync.Mutex
	m  map[string]string
}

// NewCache returns an empty replacement cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]string)}
}

// getOrSet returns the cached replacement for key, generating and storing
// one on first use.
func (c *Cache) getOrSet(key string, gen func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v
	}
	v := gen()
	c.m[key] = v
	return v
}

// Len reports the number of cached replacements.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
