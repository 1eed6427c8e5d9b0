package aicache

import "github.com/PeytonLeFleur/lamp-and-light/internal/model"

// TieredCache layers the memory tier over the disk tier. Disk hits are
// promoted into memory; stores go to both tiers.
type TieredCache struct {
	mem  *MemoryCache
	disk Cache
}

// NewTieredCache wraps disk with a fresh memory tier.
func NewTieredCache(disk Cache) *TieredCache {
	return &TieredCache{mem: NewMemoryCache(), disk: disk}
}

func (c *TieredCache) Lookup(key Key) (model.DevotionalContent, bool) {
	if content, ok := c.mem.Lookup(key); ok {
		return content, true
	}
	if content, ok := c.disk.Lookup(key); ok {
		c.mem.Store(key, content)
		return content, true
	}
	return model.DevotionalContent{}, false
}

func (c *TieredCache) Store(key Key, content model.DevotionalContent) {
	c.mem.Store(key, content)
	c.disk.Store(key, content)
}
