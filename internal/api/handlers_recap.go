package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PeytonLeFleur/lamp-and-light/internal/api/respond"
	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/recap"
)

// RecapHandler provides HTTP transport for weekly recap operations.
type RecapHandler struct {
	recaps *recap.Service
}

func NewRecapHandler(recaps *recap.Service) *RecapHandler {
	return &RecapHandler{recaps: recaps}
}

// GenerateWeek POST /api/profiles/{profileId}/recaps/week
func (h *RecapHandler) GenerateWeek(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	rec, err := h.recaps.GenerateThisWeek(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "profile not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}
