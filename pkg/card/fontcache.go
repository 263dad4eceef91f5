package card

import (
	"strings"
	"sync"
)

// FontCache keeps parsed font providers by key so repeated renders with the
// same font skip parsing. Safe for concurrent use.
type FontCache struct {
	mu        sync.Mutex
	providers map[string]FontProvider
}

// NewFontCache returns an empty cache.
func NewFontCache() *FontCache {
	return &FontCache{providers: make(map[string]FontProvider)}
}

// Get returns the provider cached under key, calling load on a miss.
// Failed loads are not cached.
func (c *FontCache) Get(key string, load func() (FontProvider, error)) (FontProvider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fp, ok := c.providers[key]; ok {
		return fp, nil
	}
	fp, err := load()
	if err != nil {
		return nil, err
	}
	c.providers[key] = fp
	return fp, nil
}

// Forget drops every provider whose key starts with prefix.
func (c *FontCache) Forget(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.providers {
		if strings.HasPrefix(key, prefix) {
			delete(c.providers, key)
		}
	}
}

// Len reports how many providers are cached.
func (c *FontCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.providers)
}
