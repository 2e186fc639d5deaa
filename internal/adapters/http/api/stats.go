package api

import "net/http"

// StatsProvider reports board counters and current state.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	board StatsProvider
}

// NewStatsHandler creates a stats handler over board.
func NewStatsHandler(board StatsProvider) *StatsHandler {
	return &StatsHandler{board: board}
}

// HandleStats writes a snapshot of the board counters. The snapshot is live
// state, so it is never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.board.GetStats())
}
