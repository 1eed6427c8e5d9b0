// Package aicache caches generated devotional content keyed by passage
// reference and calendar day. Keying deliberately excludes the profile so
// two profiles assigned the same passage on the same day share one
// generation call.
package aicache

import (
	"regexp"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

// Key identifies a cache entry. Day is truncated to day granularity in the
// profile's local calendar before use.
type Key struct {
	Ref string
	Day time.Time
}

// NewKey builds a Key with the day component truncated to start of day.
func NewKey(ref string, day time.Time) Key {
	y, m, d := day.Date()
	return Key{Ref: ref, Day: time.Date(y, m, d, 0, 0, 0, 0, day.Location())}
}

// Cache is the two-tier content cache contract. Lookup returns
// (content, true) on a hit. Store overwrites unconditionally; last write
// wins. Implementations must treat read and write failures as a miss and a
// no-op respectively so caching never blocks plan creation.
type Cache interface {
	Lookup(key Key) (model.DevotionalContent, bool)
	Store(key Key, content model.DevotionalContent)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// safeRef encodes a passage reference for use in a filename.
func safeRef(ref string) string {
	return unsafeChars.ReplaceAllString(ref, "_")
}

// fileName renders a Key as a filesystem-safe name, e.g.
// "Psalm_46_1_3_2026-08-30.json".
func fileName(key Key) string {
	return safeRef(key.Ref) + "_" + key.Day.Format("2006-01-02") + ".json"
}
