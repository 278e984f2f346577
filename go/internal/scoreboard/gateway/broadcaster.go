package gateway

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"

	"github.com/mcdev12/scoreboard/go/internal/metrics"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// Broadcaster fans snapshots out to every registered connection. It
// implements scoreboard.Publisher.
type Broadcaster struct {
	mu          deadlock.RWMutex
	connections map[*Connection]struct{}
	metrics     *metrics.Metrics
}

// NewBroadcaster creates an empty broadcaster. m may be nil.
func NewBroadcaster(m *metrics.Metrics) *Broadcaster {
	return &Broadcaster{
		connections: make(map[*Connection]struct{}),
		metrics:     m,
	}
}

// Register adds a connection to the recipient set
func (b *Broadcaster) Register(c *Connection) {
	b.mu.Lock()
	b.connections[c] = struct{}{}
	total := len(b.connections)
	b.mu.Unlock()

	b.metrics.ConnectionOpened()
	log.Debug().
		Str("connection_id", c.ID).
		Int("total_connections", total).
		Msg("connection registered")
}

// Unregister removes a connection. Removing an unknown connection is a no-op.
func (b *Broadcaster) Unregister(c *Connection) {
	b.mu.Lock()
	_, exists := b.connections[c]
	delete(b.connections, c)
	b.mu.Unlock()

	if exists {
		b.metrics.ConnectionClosed()
		log.Debug().Str("connection_id", c.ID).Msg("connection unregistered")
	}
}

// Count returns the number of registered connections
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.connections)
}

func (b *Broadcaster) recipients() []*Connection {
	b.mu.RLock()
	defer b.mu.RUnlock()

	targets := make([]*Connection, 0, len(b.connections))
	for c := range b.connections {
		targets = append(targets, c)
	}
	return targets
}

// Publish broadcasts a snapshot to all registered connections.
func (b *Broadcaster) Publish(snap scoreboard.Snapshot) {
	frame, err := EncodeState(snap)
	if err != nil {
		log.Error().Err(err).Uint64("version", snap.Version).Msg("failed to encode state for broadcast")
		return
	}
	b.Broadcast(frame)
}

// Broadcast offers a state frame to every connection. Delivery never blocks
// and never disconnects anyone: a client whose write pump is behind has its
// pending state replaced by this newer one.
func (b *Broadcaster) Broadcast(frame []byte) {
	targets := b.recipients()

	delivered := 0
	for _, c := range targets {
		if c.enqueueState(frame) {
			delivered++
		}
	}

	b.metrics.Broadcast()
	log.Debug().
		Int("connections", len(targets)).
		Int("delivered", delivered).
		Msg("state broadcast")
}

// CloseAll disconnects every client with a going-away close frame.
func (b *Broadcaster) CloseAll(reason string) {
	targets := b.recipients()
	for _, c := range targets {
		c.closeWithCode(websocket.CloseGoingAway, reason)
	}
	log.Info().Int("disconnected", len(targets)).Msg("all control connections closed")
}
