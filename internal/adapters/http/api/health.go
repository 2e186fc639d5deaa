package api

import (
	"net/http"

	"github.com/okian/eventboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness, readiness and the metrics exposition.
type HealthHandler struct {
	board StatsProvider
}

// NewHealthHandler creates a health handler. Readiness follows the board's
// "loaded" stat.
func NewHealthHandler(board StatsProvider) *HealthHandler {
	return &HealthHandler{board: board}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /readyz requests: 200 once the board has attempted
// its initial load, 503 before.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if loaded, _ := h.board.GetStats()["loaded"].(bool); !loaded {
		writeError(w, http.StatusServiceUnavailable, "not_ready", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// MetricsHandler serves Prometheus metrics from the custom registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
