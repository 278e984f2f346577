package gateway

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// ConnectionConfig holds configuration for control connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	PingInterval    time.Duration // 0 disables keepalive pings
	PongTimeout     time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int // frames waiting for the write pump; state frames coalesce
	AckRejections   bool
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default control connection configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		PongTimeout:     60 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			// The controller page is served from the board itself; any LAN
			// origin may drive it.
			return true
		},
	}
}

// Connection is one control channel: a WebSocket client that sends commands
// and receives every broadcast snapshot.
type Connection struct {
	ID          string
	ConnectedAt time.Time

	conn        *websocket.Conn
	dispatcher  scoreboard.Dispatcher
	broadcaster *Broadcaster
	config      ConnectionConfig
	clock       clockwork.Clock

	// outbox holds frames waiting for the write pump. Consecutive state
	// frames collapse into the newest one, so a client that reads slower
	// than the board changes still ends on the latest state.
	outMu  sync.Mutex
	outbox []outbound
	limit  int
	closed bool

	wake chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

type outbound struct {
	frame []byte
	state bool
}

func newConnection(conn *websocket.Conn, dispatcher scoreboard.Dispatcher, broadcaster *Broadcaster, config ConnectionConfig, clock clockwork.Clock) *Connection {
	limit := config.SendBufferSize
	if limit <= 0 {
		limit = 1
	}
	return &Connection{
		ID:          uuid.New().String(),
		ConnectedAt: clock.Now(),
		conn:        conn,
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		config:      config,
		clock:       clock,
		limit:       limit,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// enqueueState queues a state frame without blocking. It replaces a state
// frame that is still waiting at the tail, so the outbox never grows from
// broadcasts alone. It reports false only if the connection is closed.
func (c *Connection) enqueueState(frame []byte) bool {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	if c.closed {
		return false
	}

	n := len(c.outbox)
	switch {
	case n > 0 && c.outbox[n-1].state:
		c.outbox[n-1].frame = frame
	default:
		if n >= c.limit {
			c.dropStaleStates()
		}
		if len(c.outbox) >= c.limit {
			c.outbox = c.outbox[1:]
		}
		c.outbox = append(c.outbox, outbound{frame: frame, state: true})
	}
	c.signal()
	return true
}

// enqueueControl queues a frame meant for this client only (a rejection
// ack). It is dropped if the outbox is full.
func (c *Connection) enqueueControl(frame []byte) bool {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	if c.closed || len(c.outbox) >= c.limit {
		return false
	}
	c.outbox = append(c.outbox, outbound{frame: frame})
	c.signal()
	return true
}

// dropStaleStates removes queued state frames; the caller is about to
// append a newer one. Caller holds outMu.
func (c *Connection) dropStaleStates() {
	kept := c.outbox[:0]
	for _, out := range c.outbox {
		if !out.state {
			kept = append(kept, out)
		}
	}
	c.outbox = kept
}

func (c *Connection) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// takeOutbox hands the queued frames to the write pump.
func (c *Connection) takeOutbox() [][]byte {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	frames := make([][]byte, len(c.outbox))
	for i, out := range c.outbox {
		frames[i] = out.frame
	}
	c.outbox = nil
	return frames
}

func (c *Connection) isClosed() bool {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	return c.closed
}

// Close tears the connection down: it leaves the broadcaster and the socket
// is closed. Safe to call any number of times from any goroutine.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.broadcaster.Unregister(c)

		c.outMu.Lock()
		c.closed = true
		c.outbox = nil
		c.outMu.Unlock()
		close(c.done)

		if c.conn != nil {
			_ = c.conn.Close()
		}
		log.Info().
			Str("connection_id", c.ID).
			Dur("duration", c.clock.Since(c.ConnectedAt)).
			Msg("control connection closed")
	})
}

// closeWithCode sends a close frame before tearing down.
func (c *Connection) closeWithCode(code int, reason string) {
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.config.WriteTimeout))
	}
	c.Close()
}

// writePump drains the outbox onto the socket. A failed or timed-out write
// is the only thing that disconnects a client from this side.
func (c *Connection) writePump() {
	var pings <-chan time.Time
	if c.config.PingInterval > 0 {
		ticker := c.clock.NewTicker(c.config.PingInterval)
		defer ticker.Stop()
		pings = ticker.Chan()
	}
	defer c.Close()

	for {
		select {
		case <-c.done:
			return

		case <-c.wake:
			for _, frame := range c.takeOutbox() {
				_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					c.writeFailed(err)
					return
				}
			}

		case <-pings:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.config.WriteTimeout)); err != nil {
				c.writeFailed(err)
				return
			}
		}
	}
}

func (c *Connection) writeFailed(err error) {
	if c.isClosed() {
		return
	}
	c.broadcaster.metrics.ConnectionEvicted()
	log.Warn().Err(err).Str("connection_id", c.ID).Msg("write to control connection failed, disconnecting")
}

// readPump reads commands in order and applies each one before reading the
// next, which keeps a single client's commands ordered.
func (c *Connection) readPump() {
	defer c.Close()

	if c.config.MaxMessageSize > 0 {
		c.conn.SetReadLimit(c.config.MaxMessageSize)
	}
	if c.config.PingInterval > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
		})
	}

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("connection_id", c.ID).Msg("unexpected close")
			}
			return
		}

		if !c.handleMessage(message) {
			return
		}
	}
}

// handleMessage reports whether the connection should stay open
func (c *Connection) handleMessage(message []byte) bool {
	cmd, err := DecodeCommand(message)
	if errors.Is(err, ErrMalformedMessage) {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Msg("malformed control message, closing connection")
		c.closeWithCode(websocket.CloseUnsupportedData, "malformed message")
		return false
	}
	if err != nil {
		c.broadcaster.metrics.CommandRejected("invalid_field")
		c.reject(err)
		return true
	}

	if _, err := c.dispatcher.Dispatch(cmd); err != nil {
		c.reject(err)
	}
	return true
}

// reject handles a fail-soft rejection. The client gets no state frame; if
// acks are enabled it gets an error frame instead.
func (c *Connection) reject(err error) {
	log.Debug().Err(err).Str("connection_id", c.ID).Msg("command rejected")

	if !c.config.AckRejections || !errors.Is(err, scoreboard.ErrInvalidCommand) {
		return
	}
	frame, encErr := EncodeError(err)
	if encErr != nil {
		log.Error().Err(encErr).Msg("failed to encode rejection")
		return
	}
	c.enqueueControl(frame)
}
