package aicache

import (
	"sync"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

// MemoryCache is the in-process tier. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]model.DevotionalContent
}

// NewMemoryCache constructs an empty memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]model.DevotionalContent)}
}

func (c *MemoryCache) Lookup(key Key) (model.DevotionalContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.entries[mapKey(key)]
	return content, ok
}

func (c *MemoryCache) Store(key Key, content model.DevotionalContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[mapKey(key)] = content
}

func mapKey(key Key) string {
	return key.Ref + "|" + key.Day.Format("2006-01-02")
}
