package api

import (
	"context"
	"net/http"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/api/respond"
	"github.com/PeytonLeFleur/lamp-and-light/internal/connectivity"
)

// Pinger reports store reachability. Both store drivers implement it.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

// HealthHandler handles GET /api/health.
type HealthHandler struct {
	db  Pinger
	net connectivity.Monitor
}

func NewHealthHandler(db Pinger, net connectivity.Monitor) *HealthHandler {
	return &HealthHandler{db: db, net: net}
}

// CheckHealth reports store reachability and the AI connectivity signal.
// Loss of AI connectivity degrades content to fallback but does not take
// the service down, so it never fails the check.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "UP",
		"aiOnline":  h.net.IsOnline(),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if err := h.db.HealthPing(r.Context()); err != nil {
		resp["status"] = "DOWN"
		resp["message"] = err.Error()
		respond.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}
