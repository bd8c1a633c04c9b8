package websocket

import (
	"sync"
)

// PresenceListener is told when a user gains a first connection or loses
// the last one.
type PresenceListener interface {
	Online(userID string)
	Offline(userID string)
}

// Registry tracks which connections each user has open in this process.
// Connection ids are kept in the order they were added.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string][]string
	listeners []PresenceListener
}

func NewRegistry(listeners ...PresenceListener) *Registry {
	return &Registry{
		sessions:  make(map[string][]string),
		listeners: listeners,
	}
}

// AddListener must be called before connections are added.
func (r *Registry) AddListener(l PresenceListener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

func (r *Registry) AddConnection(userID, connID string) {
	r.mu.Lock()
	conns := r.sessions[userID]
	for _, id := range conns {
		if id == connID {
			r.mu.Unlock()
			return
		}
	}
	first := len(conns) == 0
	r.sessions[userID] = append(conns, connID)
	listeners := r.listeners
	r.mu.Unlock()

	if first {
		for _, l := range listeners {
			l.Online(userID)
		}
	}
}

// RemoveConnection drops connID. When it was the user's last connection the
// user entry is deleted and listeners get exactly one Offline call.
func (r *Registry) RemoveConnection(userID, connID string) {
	r.mu.Lock()
	conns, ok := r.sessions[userID]
	if !ok {
		r.mu.Unlock()
		return
	}
	idx := -1
	for i, id := range conns {
		if id == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return
	}
	remaining := append(conns[:idx:idx], conns[idx+1:]...)
	last := len(remaining) == 0
	if last {
		delete(r.sessions, userID)
	} else {
		r.sessions[userID] = remaining
	}
	listeners := r.listeners
	r.mu.Unlock()

	if last {
		for _, l := range listeners {
			l.Offline(userID)
		}
	}
}

// ConnectionsFor returns a copy of the user's connection ids, empty for an
// unknown user.
func (r *Registry) ConnectionsFor(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.sessions[userID]...)
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[userID]
	return ok
}

func (r *Registry) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
