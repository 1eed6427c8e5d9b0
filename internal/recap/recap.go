// Package recap renders the weekly summary for a profile: one recap per
// (profile, week start), built from the last seven days of entries and plans.
package recap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

const topTagCount = 3

// Service builds and persists weekly recaps.
type Service struct {
	store store.Store
	now   func() time.Time
	log   zerolog.Logger
}

// New constructs a Service. now may be nil, defaulting to time.Now.
func New(st store.Store, now func() time.Time, log zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, now: now, log: log}
}

// GenerateThisWeek returns the recap for the current ISO week, creating it on
// first request. Repeat calls within the same week return the stored recap
// unchanged; a concurrent creation race resolves in favor of the stored row.
func (s *Service) GenerateThisWeek(ctx context.Context, profileID string) (*model.WeeklyRecap, error) {
	if _, err := s.store.Profiles().Get(ctx, profileID); err != nil {
		return nil, err
	}

	now := s.now()
	weekStart := WeekStart(now)

	if existing, err := s.store.Recaps().GetByWeek(ctx, profileID, weekStart); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	from := now.AddDate(0, 0, -6)
	entries, err := s.store.Entries().List(ctx, model.ListEntriesRequest{
		ProfileID: profileID, After: &from, Before: &now,
	})
	if err != nil {
		return nil, err
	}
	plans, err := s.store.Plans().List(ctx, model.ListPlansRequest{
		ProfileID: profileID, From: &from, To: &now,
	})
	if err != nil {
		return nil, err
	}

	prayers := 0
	var tags []string
	for _, e := range entries {
		if e.Kind == "prayer" {
			prayers++
		}
		tags = append(tags, e.Tags...)
	}
	completed := 0
	for _, p := range plans {
		if p.Status == model.StatusDone {
			completed++
		}
	}
	top := topTags(tags, topTagCount)

	recap := &model.WeeklyRecap{
		ProfileID: profileID,
		WeekStart: weekStart,
		RecapMD:   render(weekStart, prayers, completed, plans, top),
		Metrics: map[string]interface{}{
			"prayers":   prayers,
			"completed": completed,
			"topTags":   top,
		},
	}

	created, err := s.store.Recaps().Create(ctx, recap)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return s.store.Recaps().GetByWeek(ctx, profileID, weekStart)
		}
		return nil, err
	}
	s.log.Info().Str("profile", profileID).Time("week_start", weekStart).Msg("generated weekly recap")
	return created, nil
}

// WeekStart returns the Monday (ISO week start) of t's week, at midnight.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, 1-wd)
}

// topTags returns the n most frequent tags, most frequent first. Ties keep
// first-appearance order so the output is stable.
func topTags(tags []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tags {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func render(weekStart time.Time, prayers, completed int, plans []*model.DailyPlan, top []string) string {
	var b strings.Builder
	b.WriteString("# Weekly Walk Recap\n")
	fmt.Fprintf(&b, "**Week of %s**\n\n", weekStart.Format("Jan 2, 2006"))
	b.WriteString("## Highlights\n")
	fmt.Fprintf(&b, "• Prayers logged: %d\n", prayers)
	fmt.Fprintf(&b, "• Challenges completed: %d\n\n", completed)
	b.WriteString("## Scriptures\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "• %s\n", p.ScriptureRef)
	}
	b.WriteString("\n## Top themes\n")
	for _, t := range top {
		fmt.Fprintf(&b, "• %s\n", t)
	}
	b.WriteString("\n## Gratitude\nWrite one thing you are thankful for right now.\n")
	return b.String()
}
