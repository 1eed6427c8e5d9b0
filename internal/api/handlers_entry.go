package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/PeytonLeFleur/lamp-and-light/internal/api/respond"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

const defaultEntryWindowDays = 30

// EntryHandler provides HTTP transport for journal entry operations.
type EntryHandler struct {
	profiles store.Profiles
	entries  store.Entries
}

func NewEntryHandler(profiles store.Profiles, entries store.Entries) *EntryHandler {
	return &EntryHandler{profiles: profiles, entries: entries}
}

// CreateEntry POST /api/profiles/{profileId}/entries
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	if !h.profileExists(w, r, profileID) {
		return
	}

	var req struct {
		Kind    string   `json:"kind"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Kind != "journal" && req.Kind != "prayer" {
		respond.WriteBadRequest(w, "kind must be journal or prayer")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.WriteBadRequest(w, "content is required")
		return
	}
	e, err := h.entries.Create(r.Context(), &model.Entry{
		ProfileID: profileID,
		Kind:      req.Kind,
		Content:   req.Content,
		Tags:      req.Tags,
	})
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, e)
}

// ListEntries GET /api/profiles/{profileId}/entries?days=30
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	if !h.profileExists(w, r, profileID) {
		return
	}

	days := defaultEntryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "days must be a positive integer")
			return
		}
		days = n
	}
	after := time.Now().AddDate(0, 0, -days)
	entries, err := h.entries.List(r.Context(), model.ListEntriesRequest{
		ProfileID: profileID,
		After:     &after,
	})
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *EntryHandler) profileExists(w http.ResponseWriter, r *http.Request, profileID string) bool {
	if _, err := h.profiles.Get(r.Context(), profileID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "profile not found")
		} else {
			respond.WriteInternalError(w, err.Error())
		}
		return false
	}
	return true
}
