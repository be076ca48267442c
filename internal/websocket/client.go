package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only send pongs and close frames
	maxMessageSize = 512

	// sendBufferSize is how many events may be pending for one connection
	sendBufferSize = 64
)

// Close reasons sent to the browser. CloseTryAgainLater tells the frontend to
// reconnect and refetch, which is always safe since every event it missed
// was followed by an analytics.invalidated.
const (
	CloseReasonBacklog  = "event backlog"
	CloseReasonShutdown = "server shutting down"
)

// ErrClientStalled is returned by Send when the connection has fallen too far
// behind. The client is closed before it is returned.
var ErrClientStalled = errors.New("client stalled")

// Client is one browser connection receiving a user's transaction and
// analytics events. The connection is push-only.
type Client struct {
	id        string
	userID    uuid.UUID
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	logger    zerolog.Logger
	closed    bool
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection for userID
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		userID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
		logger: log.With().Str("client_id", id).Str("user_id", userID.String()).Logger(),
	}
}

// ID returns the connection ID
func (c *Client) ID() string {
	return c.id
}

// UserID returns the ID of the user owning the connection
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send queues an encoded event. A full queue closes the connection with
// CloseTryAgainLater and returns ErrClientStalled.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		c.mu.RUnlock()
		return nil
	default:
	}
	c.mu.RUnlock()

	c.logger.Warn().Int("pending", sendBufferSize).Msg("WebSocket client stalled, disconnecting")
	c.CloseWithReason(websocket.CloseTryAgainLater, CloseReasonBacklog)
	return ErrClientStalled
}

// Close ends the connection normally
func (c *Client) Close() error {
	return c.CloseWithReason(websocket.CloseNormalClosure, "")
}

// CloseWithReason sends a close frame carrying code and reason, then closes the
// connection. Only the first call has any effect.
func (c *Client) CloseWithReason(code int, reason string) error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		// WriteControl may run concurrently with WritePump
		msg := websocket.FormatCloseMessage(code, reason)
		if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
			c.logger.Debug().Err(err).Msg("WebSocket close frame not delivered")
		}
		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed reports whether the connection has been closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump keeps the read deadline alive through pongs and unregisters the
// client once the peer goes away. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// WritePump delivers queued events and pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// CloseWithReason already wrote the close frame
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
