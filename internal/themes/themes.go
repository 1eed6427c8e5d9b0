// Package themes derives a recency-windowed theme set from a profile's
// journal entries, feeding passage selection and generation prompting.
package themes

import (
	"context"
	"strings"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

const (
	// DefaultWindowDays is the trailing entry window considered.
	DefaultWindowDays = 30
	// DefaultLimit caps the extracted theme set.
	DefaultLimit = 5
)

// Extractor reads recent journal entries and flattens their tags.
type Extractor struct {
	entries store.Entries
}

// NewExtractor builds an Extractor over the given entries accessor.
func NewExtractor(entries store.Entries) *Extractor {
	return &Extractor{entries: entries}
}

// Extract returns at most limit lowercase themes from entries created at or
// after now-windowDays. Duplicates are removed preserving first-seen order;
// an empty result means unthemed (random) passage selection downstream.
func (e *Extractor) Extract(ctx context.Context, profileID string, now time.Time, windowDays, limit int) ([]string, error) {
	after := now.AddDate(0, 0, -windowDays)
	entries, err := e.entries.List(ctx, model.ListEntriesRequest{ProfileID: profileID, After: &after})
	if err != nil {
		return nil, err
	}
	return Flatten(entries, limit), nil
}

// Flatten deduplicates the lowercase tags of the given entries, capped at
// limit, preserving first-seen order.
func Flatten(entries []*model.Entry, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			t := strings.ToLower(strings.TrimSpace(tag))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
