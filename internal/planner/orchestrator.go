// Package planner coordinates daily plan generation: idempotent per
// (profile, day), cache-first, one bounded retry against the generation
// provider, deterministic fallback. The caller always gets a usable plan.
package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/aicache"
	"github.com/PeytonLeFleur/lamp-and-light/internal/catalog"
	"github.com/PeytonLeFleur/lamp-and-light/internal/connectivity"
	"github.com/PeytonLeFleur/lamp-and-light/internal/devotional"
	"github.com/PeytonLeFleur/lamp-and-light/internal/govern"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
	"github.com/PeytonLeFleur/lamp-and-light/internal/themes"
)

// Orchestrator builds the daily plan for a profile.
type Orchestrator struct {
	store     store.Store
	catalog   *catalog.Catalog
	cache     aicache.Cache
	provider  devotional.Provider
	net       connectivity.Monitor
	extractor *themes.Extractor
	backoff   time.Duration
	now       func() time.Time
	log       zerolog.Logger

	// pending holds plans whose durable write failed, so a repeat request
	// in the same session returns the already-built plan instead of paying
	// for another generation call.
	mu      sync.Mutex
	pending map[string]*model.DailyPlan
}

// Options configures an Orchestrator.
type Options struct {
	Store    store.Store
	Catalog  *catalog.Catalog
	Cache    aicache.Cache
	Provider devotional.Provider
	Net      connectivity.Monitor
	Backoff  time.Duration
	Now      func() time.Time
	Log      zerolog.Logger
}

// New constructs an Orchestrator.
func New(opts Options) *Orchestrator {
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	net := opts.Net
	if net == nil {
		net = connectivity.Static(true)
	}
	return &Orchestrator{
		store:     opts.Store,
		catalog:   opts.Catalog,
		cache:     opts.Cache,
		provider:  opts.Provider,
		net:       net,
		extractor: themes.NewExtractor(opts.Store.Entries()),
		backoff:   backoff,
		now:       now,
		log:       opts.Log,
		pending:   make(map[string]*model.DailyPlan),
	}
}

// GenerateToday returns the profile's plan for the current day, creating it
// if absent. Generation failures never propagate: the plan carries cached,
// freshly generated, or fallback content.
func (o *Orchestrator) GenerateToday(ctx context.Context, profileID string) (*model.DailyPlan, error) {
	if _, err := o.store.Profiles().Get(ctx, profileID); err != nil {
		return nil, err
	}

	now := o.now()
	day := startOfDay(now)

	// Idempotence: an existing plan is returned verbatim.
	if existing, err := o.store.Plans().GetByDay(ctx, profileID, day); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		o.log.Warn().Err(err).Str("profile", profileID).Msg("plan lookup failed; treating as absent")
	}

	if plan := o.takePending(profileID, day); plan != nil {
		return plan, nil
	}

	recent, err := o.extractor.Extract(ctx, profileID, now, themes.DefaultWindowDays, themes.DefaultLimit)
	if err != nil {
		o.log.Warn().Err(err).Str("profile", profileID).Msg("theme extraction failed; selecting unthemed")
		recent = nil
	}

	var passage model.Passage
	if len(recent) == 0 {
		passage = o.catalog.SelectRandom()
	} else {
		passage = o.catalog.SelectByThemes(recent)
	}

	plan := &model.DailyPlan{
		ProfileID:     profileID,
		Day:           day,
		ScriptureRef:  passage.Reference,
		ScriptureText: passage.Text,
		Content:       model.DevotionalContent{CrossRefs: passage.CrossRefs},
		Status:        model.StatusActive,
	}

	key := aicache.NewKey(passage.Reference, day)
	if cached, ok := o.cache.Lookup(key); ok {
		// Cached content was governed before it was stored; it is applied
		// as-is.
		plan.Content = cached
	} else if !o.net.IsOnline() {
		o.log.Info().Str("profile", profileID).Str("ref", passage.Reference).Msg("offline; using fallback content")
		plan.Content = FallbackContent(passage)
	} else {
		outcome := generateWithRetry(ctx, o.provider, o.backoff, passage.Reference, passage.Text, recent)
		if outcome.ok {
			governed := govern.Apply(outcome.content)
			o.cache.Store(key, governed)
			plan.Content = governed
		} else {
			o.log.Warn().Str("profile", profileID).Str("ref", passage.Reference).Int("calls", outcome.calls).
				Msg("generation failed after retry; using fallback content")
			plan.Content = FallbackContent(passage)
		}
	}

	return o.persist(ctx, plan), nil
}

// persist writes the finalized plan, resolving creation races in favor of
// the winner already in the store. A failed write still returns the
// in-memory plan; the plan is parked so a same-session retry reuses it.
func (o *Orchestrator) persist(ctx context.Context, plan *model.DailyPlan) *model.DailyPlan {
	// Re-check immediately before the final write: a concurrent caller may
	// have created the plan while we were generating.
	if winner, err := o.store.Plans().GetByDay(ctx, plan.ProfileID, plan.Day); err == nil {
		return winner
	}

	created, err := o.store.Plans().Create(ctx, plan)
	if err == nil {
		return created
	}
	if errors.Is(err, model.ErrConflict) {
		if winner, gerr := o.store.Plans().GetByDay(ctx, plan.ProfileID, plan.Day); gerr == nil {
			return winner
		}
	}

	o.log.Error().Err(err).Str("profile", plan.ProfileID).Msg("plan persist failed; returning in-memory plan")
	o.parkPending(plan)
	return plan
}

func (o *Orchestrator) takePending(profileID string, day time.Time) *model.DailyPlan {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending[pendingKey(profileID, day)]
}

func (o *Orchestrator) parkPending(plan *model.DailyPlan) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[pendingKey(plan.ProfileID, plan.Day)] = plan
}

func pendingKey(profileID string, day time.Time) string {
	return profileID + "|" + day.Format("2006-01-02")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
