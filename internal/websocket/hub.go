package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub owns the live connections of this process and the room memberships of
// each connection. Users are resolved to connections through the Registry.
type Hub struct {
	mu sync.RWMutex

	// clients maps connection id to client
	clients map[string]*Client

	// rooms maps room id to the set of connections that joined it
	rooms map[string]map[*Client]struct{}

	registry *Registry
	logger   *WebSocketLogger
	closed   bool
}

// NewHub creates a hub and subscribes it to the registry so a user's last
// disconnect is broadcast as offline_user.
func NewHub(registry *Registry, l *WebSocketLogger) *Hub {
	if l == nil {
		l = NewWebSocketLogger(nil)
	}
	h := &Hub{
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[*Client]struct{}),
		registry: registry,
		logger:   l,
	}
	registry.AddListener(h)
	return h
}

// Register adds an authenticated client. It returns false once the hub is
// closed.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.registry.AddConnection(client.UserID, client.ID)
	h.logger.Info("client connected", client.UserID, client.ID)
	return true
}

// Unregister removes a client and all its room memberships. Calling it more
// than once is harmless.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client.ID] != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(client.send)
	h.mu.Unlock()

	// outside the lock: the last disconnect calls back into Offline
	h.registry.RemoveConnection(client.UserID, client.ID)
	h.logger.Info("client disconnected", client.UserID, client.ID)
}

// Join subscribes one connection to room. It returns false when the
// connection is no longer registered.
func (h *Hub) Join(connID, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return false
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
	return true
}

// EmitToUser sends an event to every live connection of userID and returns
// how many accepted it.
func (h *Hub) EmitToUser(userID, event string, data any) int {
	payload, ok := h.encode(event, data)
	if !ok {
		return 0
	}
	connIDs := h.registry.ConnectionsFor(userID)

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, id := range connIDs {
		// a connection may have closed since the registry was read
		if client, ok := h.clients[id]; ok && h.deliver(client, payload) {
			sent++
		}
	}
	return sent
}

// EmitToRoom sends an event to every connection that joined room.
func (h *Hub) EmitToRoom(room, event string, data any) int {
	payload, ok := h.encode(event, data)
	if !ok {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for client := range h.rooms[room] {
		if h.deliver(client, payload) {
			sent++
		}
	}
	return sent
}

// Broadcast sends an event to every connection of this process.
func (h *Hub) Broadcast(event string, data any) int {
	payload, ok := h.encode(event, data)
	if !ok {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, client := range h.clients {
		if h.deliver(client, payload) {
			sent++
		}
	}
	return sent
}

// sendTo queues a raw frame for one client if it is still registered.
func (h *Hub) sendTo(client *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client.ID] != client {
		return false
	}
	return h.deliver(client, payload)
}

// deliver must be called with h.mu held; the send channel is only closed
// under the write lock.
func (h *Hub) deliver(client *Client, payload []byte) bool {
	select {
	case client.send <- payload:
		return true
	default:
		h.logger.Warn("client send buffer full", client.UserID, client.ID)
		return false
	}
}

func (h *Hub) encode(event string, data any) ([]byte, bool) {
	payload, err := encodeFrame(event, data)
	if err != nil {
		h.logger.Error("encode frame failed", "", "", err, zap.String("frame", event))
		return nil, false
	}
	return payload, true
}

func (h *Hub) Online(string) {}

func (h *Hub) Offline(userID string) {
	h.Broadcast(EventOfflineUser, userID)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close stops accepting clients and closes every open connection. The read
// loops then unregister their clients.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.closeConn()
	}
}
