package themes

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

const (
	// DefaultReasonLimit caps the ranked reason list.
	DefaultReasonLimit = 3
	// fallbackReasonCount is how many passage themes stand in when no
	// journal tag overlaps.
	fallbackReasonCount = 2
)

// Reasons explains why a passage suits the profile: recent journal tags that
// overlap the passage's themes, most frequent first. With no overlap the
// leading passage themes are returned so the caller always has something to
// show.
func (e *Extractor) Reasons(ctx context.Context, profileID string, now time.Time, passageThemes []string) ([]string, error) {
	after := now.AddDate(0, 0, -DefaultWindowDays)
	entries, err := e.entries.List(ctx, model.ListEntriesRequest{ProfileID: profileID, After: &after})
	if err != nil {
		return nil, err
	}
	return MatchThemes(entries, passageThemes, DefaultReasonLimit), nil
}

// MatchThemes ranks the entry tags that overlap passageThemes by frequency,
// capped at limit. Overlap is a case-insensitive substring match in either
// direction, so the tag "anxious" still hits the theme "anxiety" family when
// one contains the other.
func MatchThemes(entries []*model.Entry, passageThemes []string, limit int) []string {
	lowered := make([]string, 0, len(passageThemes))
	for _, th := range passageThemes {
		lowered = append(lowered, strings.ToLower(th))
	}

	counts := make(map[string]int)
	var order []string
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			t := strings.ToLower(strings.TrimSpace(tag))
			if t == "" || !overlapsAny(t, lowered) {
				continue
			}
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	if len(order) == 0 {
		n := fallbackReasonCount
		if len(passageThemes) < n {
			n = len(passageThemes)
		}
		return append([]string(nil), passageThemes[:n]...)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func overlapsAny(tag string, themes []string) bool {
	for _, th := range themes {
		if strings.Contains(tag, th) || strings.Contains(th, tag) {
			return true
		}
	}
	return false
}
