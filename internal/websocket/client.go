package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/muhammedkh45/Echoo/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Client represents a single authenticated WebSocket connection
type Client struct {
	ID       string
	UserID   string
	Identity services.Identity

	conn      *websocket.Conn
	send      chan []byte
	rooms     map[string]struct{} // guarded by hub.mu
	hub       *Hub
	logger    *WebSocketLogger
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, identity services.Identity, hub *Hub, l *WebSocketLogger) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   identity.User.ID.Hex(),
		Identity: identity,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		rooms:    make(map[string]struct{}),
		hub:      hub,
		logger:   l,
	}
}

// Reply queues a frame for this connection only.
func (c *Client) Reply(event string, data any) bool {
	payload, err := encodeFrame(event, data)
	if err != nil {
		c.logger.Error("encode frame failed", c.UserID, c.ID, err)
		return false
	}
	return c.hub.sendTo(c, payload)
}

// ReplyError reports a failed inbound event to this connection.
func (c *Client) ReplyError(event string, err error) {
	c.hub.sendTo(c, errorFrame(event, err))
}

// readPump processes inbound frames one at a time, in arrival order, until
// the connection fails. It unregisters the client on exit.
func (c *Client) readPump(ctx context.Context, router *Router) {
	defer func() {
		c.hub.Unregister(c)
		c.closeConn()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket unexpected close", c.UserID, c.ID, err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		router.Handle(ctx, c, message)
	}
}

// writePump is the only writer to the connection after the handshake.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) closeConn() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
