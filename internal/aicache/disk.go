package aicache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

// DiskCache is the durable tier: one JSON document per (reference, day).
type DiskCache struct {
	dir string
	log zerolog.Logger
}

// NewDiskCache creates the cache directory if needed.
func NewDiskCache(dir string, log zerolog.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, log: log}, nil
}

// Dir returns the cache directory path.
func (c *DiskCache) Dir() string { return c.dir }

// Lookup reads an entry from disk. Any read or decode failure is logged and
// reported as a miss.
func (c *DiskCache) Lookup(key Key) (model.DevotionalContent, bool) {
	path := filepath.Join(c.dir, fileName(key))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn().Err(err).Str("path", path).Msg("cache read failed")
		}
		return model.DevotionalContent{}, false
	}
	var content model.DevotionalContent
	if err := json.Unmarshal(data, &content); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache entry corrupt")
		return model.DevotionalContent{}, false
	}
	return content, true
}

// Store writes an entry, overwriting any existing one. Write failures are
// logged and swallowed.
func (c *DiskCache) Store(key Key, content model.DevotionalContent) {
	path := filepath.Join(c.dir, fileName(key))
	data, err := json.Marshal(content)
	if err != nil {
		c.log.Warn().Err(err).Str("ref", key.Ref).Msg("cache encode failed")
		return
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache write failed")
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cache rename failed")
	}
}
