package gateway

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// StateStore is what the gateway needs from the scoreboard store
type StateStore interface {
	scoreboard.Dispatcher
	Snapshot() scoreboard.Snapshot
	WithSnapshot(fn func(scoreboard.Snapshot))
}

// WebSocketHandler upgrades control connections
type WebSocketHandler struct {
	store       StateStore
	broadcaster *Broadcaster
	upgrader    websocket.Upgrader
	config      ConnectionConfig
	clock       clockwork.Clock
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(store StateStore, broadcaster *Broadcaster, config ConnectionConfig, clock clockwork.Clock) *WebSocketHandler {
	return &WebSocketHandler{
		store:       store,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
		clock:  clock,
	}
}

// HandleConnection handles GET /ws
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to upgrade control connection")
		return
	}

	c := newConnection(conn, h.store, h.broadcaster, h.config, h.clock)
	if err := h.attach(c); err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to attach control connection")
		c.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("control connection established")
}

// attach registers c and queues the current state as its first frame. Both
// happen under the store's mutation lock, so the client's first frame is
// never older than any broadcast it receives afterwards.
func (h *WebSocketHandler) attach(c *Connection) error {
	var attachErr error
	h.store.WithSnapshot(func(snap scoreboard.Snapshot) {
		frame, err := EncodeState(snap)
		if err != nil {
			attachErr = fmt.Errorf("encode initial state: %w", err)
			return
		}
		h.broadcaster.Register(c)
		c.enqueueState(frame)
	})
	return attachErr
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
}
