// Package refresh pre-builds the daily plan in the background so the content
// is already cached and persisted when the user opens the app.
package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/planner"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

// runTimeout bounds one refresh pass. Generous next to the generation
// timeout so a slow provider still finishes inside it.
const runTimeout = 2 * time.Minute

// Refresher triggers plan generation once per day at a fixed local hour.
type Refresher struct {
	orch     *planner.Orchestrator
	profiles store.Profiles
	hour     int
	now      func() time.Time
	log      zerolog.Logger
}

// New constructs a Refresher firing at the given hour (0-23).
func New(orch *planner.Orchestrator, profiles store.Profiles, hour int, log zerolog.Logger) *Refresher {
	return &Refresher{orch: orch, profiles: profiles, hour: hour, now: time.Now, log: log}
}

// Start launches the background loop; it stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *Refresher) loop(ctx context.Context) {
	for {
		wait := time.Until(r.nextRun())
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		r.RunOnce(ctx)
	}
}

// RunOnce generates today's plan for the primary profile under the refresh
// timeout. Errors are logged, never fatal: the user-facing request path
// regenerates on demand.
func (r *Refresher) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	profile, err := r.profiles.First(runCtx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			r.log.Warn().Err(err).Msg("refresh: profile lookup failed")
		}
		return
	}
	plan, err := r.orch.GenerateToday(runCtx, profile.ProfileID)
	if err != nil {
		r.log.Warn().Err(err).Str("profile", profile.ProfileID).Msg("refresh: plan generation failed")
		return
	}
	r.log.Info().Str("profile", profile.ProfileID).Str("ref", plan.ScriptureRef).Msg("refresh: plan ready")
}

// nextRun returns the next occurrence of the configured hour, strictly in the
// future.
func (r *Refresher) nextRun() time.Time {
	now := r.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
