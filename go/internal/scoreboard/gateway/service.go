package gateway

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Service is the scoreboard control plane: WebSocket control channels, the
// read-only HTTP views and the controller page.
type Service struct {
	broadcaster  *Broadcaster
	wsHandler    *WebSocketHandler
	stateHandler *StateHandler
	store        StateStore
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	Clock            clockwork.Clock
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		Clock:            clockwork.NewRealClock(),
	}
}

// NewService creates a new gateway service. The broadcaster should be the
// store's publisher so accepted commands reach every connection.
func NewService(config Config, store StateStore, broadcaster *Broadcaster) *Service {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	return &Service{
		broadcaster:  broadcaster,
		wsHandler:    NewWebSocketHandler(store, broadcaster, config.ConnectionConfig, config.Clock),
		stateHandler: NewStateHandler(store, broadcaster),
		store:        store,
	}
}

// Stop disconnects every control client
func (s *Service) Stop() {
	s.broadcaster.CloseAll("server shutting down")
	log.Info().Msg("scoreboard gateway stopped")
}

// RegisterRoutes registers the controller page, WebSocket and state routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", ControllerHandler())
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("scoreboard gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"service":           "scoreboard_gateway",
		"total_connections": s.broadcaster.Count(),
		"state_version":     s.store.Snapshot().Version,
	}
}
