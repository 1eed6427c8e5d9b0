// Package streak maintains the consecutive-day and weekly counters stored on
// the profile row.
package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

// Service applies streak transitions to a profile and persists the result.
type Service struct {
	profiles store.Profiles
	now      func() time.Time
}

// New constructs a Service. now may be nil, defaulting to time.Now.
func New(profiles store.Profiles, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{profiles: profiles, now: now}
}

// MarkActive records activity for today and adjusts the streak: consecutive
// days extend it, a gap of more than one day resets it to 1, and repeated
// activity on the same day leaves it untouched. First-ever activity starts
// the streak at 1.
func (s *Service) MarkActive(ctx context.Context, p *model.Profile) error {
	now := s.now()
	today := startOfDay(now)
	if p.LastActive == nil {
		p.StreakCount = 1
	} else {
		diff := daysBetween(*p.LastActive, today)
		switch {
		case diff == 1:
			p.StreakCount++
		case diff > 1:
			p.StreakCount = 1
		}
	}
	p.LastActive = &now
	return s.profiles.Update(ctx, p)
}

// IncrementWeekly bumps the weekly completion counter.
func (s *Service) IncrementWeekly(ctx context.Context, p *model.Profile) error {
	p.WeeklyCompleted++
	return s.profiles.Update(ctx, p)
}

// ResetWeeklyIfNewWeek zeroes the weekly counter on the first activity of a
// new ISO week. The week key is stored on the profile so the reset fires at
// most once per week.
func (s *Service) ResetWeeklyIfNewWeek(ctx context.Context, p *model.Profile) error {
	key := WeekKey(s.now())
	if p.LastWeekKey == key {
		return nil
	}
	p.WeeklyCompleted = 0
	p.LastWeekKey = key
	return s.profiles.Update(ctx, p)
}

// WeekKey returns the ISO year-week identifier for t, e.g. "2026-35".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. Comparing dates in UTC keeps
// the count exact across DST transitions, where a wall-clock day is not 24h.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}
