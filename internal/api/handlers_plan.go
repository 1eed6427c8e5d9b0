package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/api/respond"
	"github.com/PeytonLeFleur/lamp-and-light/internal/catalog"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/planner"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
	"github.com/PeytonLeFleur/lamp-and-light/internal/streak"
	"github.com/PeytonLeFleur/lamp-and-light/internal/themes"
)

// statusRank orders plan statuses; transitions may only move to a strictly
// higher rank. Done and skipped are both terminal.
var statusRank = map[string]int{
	model.StatusActive:  0,
	model.StatusStarted: 1,
	model.StatusDone:    2,
	model.StatusSkipped: 2,
}

// PlanHandler provides HTTP transport for daily plan operations.
type PlanHandler struct {
	orch    *planner.Orchestrator
	store   store.Store
	streaks *streak.Service
	catalog *catalog.Catalog
	themes  *themes.Extractor
	log     zerolog.Logger
}

func NewPlanHandler(orch *planner.Orchestrator, st store.Store, streaks *streak.Service, cat *catalog.Catalog, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		orch:    orch,
		store:   st,
		streaks: streaks,
		catalog: cat,
		themes:  themes.NewExtractor(st.Entries()),
		log:     log,
	}
}

// GenerateToday POST /api/profiles/{profileId}/plans/today
func (h *PlanHandler) GenerateToday(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	plan, err := h.orch.GenerateToday(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "profile not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, plan)
}

// ListPlans GET /api/profiles/{profileId}/plans?from=&to=
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	if _, err := h.store.Profiles().Get(r.Context(), profileID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "profile not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}

	req := model.ListPlansRequest{ProfileID: profileID}
	for name, dst := range map[string]**time.Time{"from": &req.From, "to": &req.To} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond.WriteBadRequest(w, name+" must be YYYY-MM-DD")
			return
		}
		*dst = &t
	}

	plans, err := h.store.Plans().List(r.Context(), req)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
		"count": len(plans),
	})
}

// UpdateStatus PATCH /api/profiles/{profileId}/plans/{planId}/status
func (h *PlanHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	profileID := vars["profileId"]
	planID := vars["planId"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	newRank, ok := statusRank[req.Status]
	if !ok {
		respond.WriteBadRequest(w, "status must be one of active, started, done, skipped")
		return
	}

	current, err := h.store.Plans().Get(r.Context(), profileID, planID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "plan not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if newRank <= statusRank[current.Status] {
		respond.WriteError(w, http.StatusConflict, "status can only move forward")
		return
	}

	updated, err := h.store.Plans().UpdateStatus(r.Context(), profileID, planID, req.Status)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	if req.Status == model.StatusDone {
		h.recordCompletion(r, profileID)
	}
	respond.WriteJSON(w, http.StatusOK, updated)
}

// WhyPassage GET /api/profiles/{profileId}/plans/{planId}/why
//
// Explains the passage assignment: which recent journal tags overlap the
// passage's themes. An empty reason list means the passage was not themed to
// the journal (random pick or unknown reference).
func (h *PlanHandler) WhyPassage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	profileID := vars["profileId"]
	planID := vars["planId"]

	plan, err := h.store.Plans().Get(r.Context(), profileID, planID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "plan not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}

	var passageThemes []string
	if passage, ok := h.catalog.ByReference(plan.ScriptureRef); ok {
		passageThemes = passage.Themes
	}
	reasons, err := h.themes.Reasons(r.Context(), profileID, time.Now(), passageThemes)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reference": plan.ScriptureRef,
		"themes":    passageThemes,
		"reasons":   reasons,
	})
}

// recordCompletion updates streak counters after a challenge is completed.
// Failures are logged, not surfaced: the status change already happened.
func (h *PlanHandler) recordCompletion(r *http.Request, profileID string) {
	ctx := r.Context()
	profile, err := h.store.Profiles().Get(ctx, profileID)
	if err != nil {
		h.log.Warn().Err(err).Str("profile", profileID).Msg("streak update skipped")
		return
	}
	if err := h.streaks.ResetWeeklyIfNewWeek(ctx, profile); err != nil {
		h.log.Warn().Err(err).Str("profile", profileID).Msg("weekly reset failed")
	}
	if err := h.streaks.MarkActive(ctx, profile); err != nil {
		h.log.Warn().Err(err).Str("profile", profileID).Msg("streak mark failed")
	}
	if err := h.streaks.IncrementWeekly(ctx, profile); err != nil {
		h.log.Warn().Err(err).Str("profile", profileID).Msg("weekly increment failed")
	}
}
