// Package storetest provides a compliance suite run against every
// store.Store driver.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. makeStore should return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// Profiles
	p, err := s.Profiles().Create(ctx, &model.Profile{DisplayName: "Tester"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.ProfileID == "" {
		t.Fatal("CreateProfile: empty id")
	}
	if got, err := s.Profiles().Get(ctx, p.ProfileID); err != nil || got.DisplayName != "Tester" {
		t.Fatalf("GetProfile: got=%v err=%v", got, err)
	}
	if _, err := s.Profiles().Get(ctx, "missing-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetProfile missing: want ErrNotFound, got %v", err)
	}
	if got, err := s.Profiles().First(ctx); err != nil || got == nil {
		t.Fatalf("FirstProfile: got=%v err=%v", got, err)
	}

	now := time.Now().UTC()
	p.StreakCount = 3
	p.LastActive = &now
	if err := s.Profiles().Update(ctx, p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got, _ := s.Profiles().Get(ctx, p.ProfileID); got.StreakCount != 3 || got.LastActive == nil {
		t.Fatalf("UpdateProfile not persisted: %+v", got)
	}

	// Entries
	e, err := s.Entries().Create(ctx, &model.Entry{
		ProfileID: p.ProfileID, Kind: "journal", Content: "Feeling anxious but hopeful.",
		Tags: []string{"anxiety", "hope"},
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if e.EntryID == "" {
		t.Fatal("CreateEntry: empty id")
	}
	after := now.Add(-time.Hour)
	lst, err := s.Entries().List(ctx, model.ListEntriesRequest{ProfileID: p.ProfileID, After: &after})
	if err != nil || len(lst) != 1 || len(lst[0].Tags) != 2 {
		t.Fatalf("ListEntries: n=%d err=%v", len(lst), err)
	}
	old := now.Add(time.Hour)
	if lst, err := s.Entries().List(ctx, model.ListEntriesRequest{ProfileID: p.ProfileID, After: &old}); err != nil || len(lst) != 0 {
		t.Fatalf("ListEntries window: n=%d err=%v", len(lst), err)
	}

	// Plans
	plan := &model.DailyPlan{
		ProfileID:     p.ProfileID,
		Day:           day,
		ScriptureRef:  "Psalm 46:1-3",
		ScriptureText: "God is our refuge and strength...",
		Content: model.DevotionalContent{
			Application: "Note.", Prayer: "Prayer.", Challenge: "Task.",
			CrossRefs: []string{"Psalm 18:2"},
		},
		Status: model.StatusActive,
	}
	created, err := s.Plans().Create(ctx, plan)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if _, err := s.Plans().Create(ctx, plan); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate (profile, day) insert: want ErrConflict, got %v", err)
	}
	got, err := s.Plans().GetByDay(ctx, p.ProfileID, day)
	if err != nil || got.PlanID != created.PlanID {
		t.Fatalf("GetPlanByDay: got=%v err=%v", got, err)
	}
	if got.Content.Application != "Note." || len(got.Content.CrossRefs) != 1 {
		t.Fatalf("GetPlanByDay content: %+v", got.Content)
	}
	if _, err := s.Plans().GetByDay(ctx, p.ProfileID, day.AddDate(0, 0, 1)); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetPlanByDay missing: want ErrNotFound, got %v", err)
	}
	if got, err := s.Plans().Get(ctx, p.ProfileID, created.PlanID); err != nil || got.ScriptureRef != "Psalm 46:1-3" {
		t.Fatalf("GetPlan: got=%v err=%v", got, err)
	}
	if _, err := s.Plans().Get(ctx, p.ProfileID, "missing-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetPlan missing: want ErrNotFound, got %v", err)
	}
	if upd, err := s.Plans().UpdateStatus(ctx, p.ProfileID, created.PlanID, model.StatusDone); err != nil || upd.Status != model.StatusDone {
		t.Fatalf("UpdateStatus: got=%v err=%v", upd, err)
	}
	from := day.AddDate(0, 0, -6)
	plansInWeek, err := s.Plans().List(ctx, model.ListPlansRequest{ProfileID: p.ProfileID, From: &from, To: &day})
	if err != nil || len(plansInWeek) != 1 {
		t.Fatalf("ListPlans: n=%d err=%v", len(plansInWeek), err)
	}

	// Recaps
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	recap := &model.WeeklyRecap{
		ProfileID: p.ProfileID,
		WeekStart: weekStart,
		RecapMD:   "# Weekly Walk Recap",
		Metrics:   map[string]interface{}{"prayers": float64(2)},
	}
	if _, err := s.Recaps().Create(ctx, recap); err != nil {
		t.Fatalf("CreateRecap: %v", err)
	}
	if _, err := s.Recaps().Create(ctx, recap); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate recap insert: want ErrConflict, got %v", err)
	}
	if got, err := s.Recaps().GetByWeek(ctx, p.ProfileID, weekStart); err != nil || got.RecapMD == "" {
		t.Fatalf("GetRecapByWeek: got=%v err=%v", got, err)
	}
	if _, err := s.Recaps().GetByWeek(ctx, p.ProfileID, weekStart.AddDate(0, 0, 7)); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetRecapByWeek missing: want ErrNotFound, got %v", err)
	}
}
