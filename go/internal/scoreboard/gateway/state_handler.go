package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ConnectionStats is the body of GET /ws/stats
type ConnectionStats struct {
	TotalConnections int    `json:"total_connections"`
	Version          uint64 `json:"state_version"`
}

// StateHandler serves read-only views of the board over plain HTTP
type StateHandler struct {
	store       StateStore
	broadcaster *Broadcaster
}

// NewStateHandler creates a new state handler
func NewStateHandler(store StateStore, broadcaster *Broadcaster) *StateHandler {
	return &StateHandler{store: store, broadcaster: broadcaster}
}

// HandleGetState handles GET /api/state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.store.Snapshot())
}

// HandleConnectionStats handles GET /ws/stats
func (h *StateHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, ConnectionStats{
		TotalConnections: h.broadcaster.Count(),
		Version:          h.store.Snapshot().Version,
	})
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleGetState)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
