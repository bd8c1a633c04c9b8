package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/muhammedkh45/Echoo/internal/services"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const DefaultHandshakeTimeout = 10 * time.Second

// Authenticator resolves a "<scheme> <token>" credential.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (services.Identity, error)
}

type Handler struct {
	auth             Authenticator
	hub              *Hub
	router           *Router
	handshakeTimeout time.Duration
	upgrader         websocket.Upgrader
	logger           *WebSocketLogger

	// ctx is cancelled on shutdown and bounds every event handler
	ctx context.Context
}

func NewHandler(ctx context.Context, auth Authenticator, hub *Hub, router *Router, handshakeTimeout time.Duration, l *WebSocketLogger) *Handler {
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	if l == nil {
		l = NewWebSocketLogger(nil)
	}
	return &Handler{
		auth:             auth,
		hub:              hub,
		router:           router,
		handshakeTimeout: handshakeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: l,
		ctx:    ctx,
	}
}

// Connect upgrades the request and waits for an auth frame. Only an
// authenticated connection is registered and routed; any handshake failure
// closes it.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "", "", err)
		return
	}

	identity, err := h.handshake(conn)
	if err != nil {
		h.logger.Warn("handshake rejected", "", "", zap.Error(err))
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, errorFrame(EventAuth, err))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, echoo_errors.PublicMessage(err)))
		_ = conn.Close()
		return
	}

	client := NewClient(conn, identity, h.hub, h.logger)
	if !h.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}
	client.Reply(EventAuthenticated, AuthenticatedPayload{UserID: client.UserID, ConnectionID: client.ID})

	go client.writePump()
	client.readPump(h.ctx, h.router)
}

func (h *Handler) handshake(conn *websocket.Conn) (services.Identity, error) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.handshakeTimeout))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return services.Identity{}, fmt.Errorf("%w: handshake timed out", echoo_errors.ErrMissingCredential)
		}
		return services.Identity{}, fmt.Errorf("%w: %v", echoo_errors.ErrMissingCredential, err)
	}

	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event != EventAuth {
		return services.Identity{}, echoo_errors.ErrMissingCredential
	}
	var payload AuthPayload
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		return services.Identity{}, echoo_errors.ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.handshakeTimeout)
	defer cancel()
	return h.auth.Authenticate(ctx, payload.Authorization)
}
