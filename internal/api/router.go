package api

import (
	"github.com/gorilla/mux"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Profiles *ProfileHandler
	Entries  *EntryHandler
	Plans    *PlanHandler
	Recaps   *RecapHandler
	Health   *HealthHandler
}

// NewRouter builds the full API route table.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", h.Health.CheckHealth).Methods("GET")

	r.HandleFunc("/api/profiles", h.Profiles.CreateProfile).Methods("POST")
	r.HandleFunc("/api/profiles/{profileId}", h.Profiles.GetProfile).Methods("GET")

	r.HandleFunc("/api/profiles/{profileId}/entries", h.Entries.CreateEntry).Methods("POST")
	r.HandleFunc("/api/profiles/{profileId}/entries", h.Entries.ListEntries).Methods("GET")

	r.HandleFunc("/api/profiles/{profileId}/plans/today", h.Plans.GenerateToday).Methods("POST")
	r.HandleFunc("/api/profiles/{profileId}/plans", h.Plans.ListPlans).Methods("GET")
	r.HandleFunc("/api/profiles/{profileId}/plans/{planId}/status", h.Plans.UpdateStatus).Methods("PATCH")
	r.HandleFunc("/api/profiles/{profileId}/plans/{planId}/why", h.Plans.WhyPassage).Methods("GET")

	r.HandleFunc("/api/profiles/{profileId}/recaps/week", h.Recaps.GenerateWeek).Methods("POST")

	return r
}
