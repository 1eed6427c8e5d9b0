// Package api provides the HTTP transport over the profile, journal, plan
// and recap services.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/PeytonLeFleur/lamp-and-light/internal/api/respond"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

// ProfileHandler provides HTTP transport for profile operations.
type ProfileHandler struct {
	profiles store.Profiles
}

func NewProfileHandler(profiles store.Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// CreateProfile POST /api/profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName  string `json:"displayName"`
		Denomination string `json:"denomination"`
		Goals        string `json:"goals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		respond.WriteBadRequest(w, "displayName is required")
		return
	}
	p, err := h.profiles.Create(r.Context(), &model.Profile{
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Denomination: req.Denomination,
		Goals:        req.Goals,
	})
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, p)
}

// GetProfile GET /api/profiles/{profileId}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	p, err := h.profiles.Get(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "profile not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}
