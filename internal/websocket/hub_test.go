package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/services"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// offlineClient is a registered client without a network connection; frames
// queued for it are read straight from its send buffer.
func offlineClient(t *testing.T, hub *Hub, u user.User) *Client {
	t.Helper()
	c := NewClient(nil, services.Identity{User: u}, hub, NewWebSocketLogger(nil))
	require.True(t, hub.Register(c))
	return c
}

func queued(t *testing.T, c *Client) []Frame {
	t.Helper()
	var frames []Frame
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return frames
			}
			var f Frame
			require.NoError(t, json.Unmarshal(raw, &f))
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func eventNames(frames []Frame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Event)
	}
	return out
}

func newUser(name string) user.User {
	return user.User{ID: primitive.NewObjectID(), FirstName: name}
}

func TestHub(t *testing.T) {
	t.Run("emit to user reaches every connection", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(NewRegistry(), nil)
		alice, bob := newUser("alice"), newUser("bob")
		a1, a2 := offlineClient(t, hub, alice), offlineClient(t, hub, alice)
		b1 := offlineClient(t, hub, bob)

		req.Equal(2, hub.EmitToUser(alice.ID.Hex(), "newMessage", map[string]string{"content": "hi"}))
		req.Equal([]string{"newMessage"}, eventNames(queued(t, a1)))
		req.Equal([]string{"newMessage"}, eventNames(queued(t, a2)))
		req.Empty(queued(t, b1))

		req.Zero(hub.EmitToUser(primitive.NewObjectID().Hex(), "newMessage", nil))
	})

	t.Run("rooms are per connection", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(NewRegistry(), nil)
		alice := newUser("alice")
		a1, a2 := offlineClient(t, hub, alice), offlineClient(t, hub, alice)

		req.True(hub.Join(a1.ID, "team-x_abc123"))
		req.Equal(1, hub.EmitToRoom("team-x_abc123", "newMessage", "x"))
		req.Len(queued(t, a1), 1)
		req.Empty(queued(t, a2))
	})

	t.Run("join on a vanished connection is skipped", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(NewRegistry(), nil)
		a1 := offlineClient(t, hub, newUser("alice"))
		hub.Unregister(a1)

		req.False(hub.Join(a1.ID, "room"))
		req.False(hub.Join("never-existed", "room"))
		req.Zero(hub.RoomSize("room"))
	})

	t.Run("unregister cleans rooms and is idempotent", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(NewRegistry(), nil)
		a1 := offlineClient(t, hub, newUser("alice"))
		req.True(hub.Join(a1.ID, "room"))

		hub.Unregister(a1)
		hub.Unregister(a1)
		req.Zero(hub.RoomSize("room"))
		req.Zero(hub.ClientCount())
		req.Zero(hub.EmitToRoom("room", "newMessage", "x"))
		req.False(a1.Reply("newMessage", "x"))
	})

	t.Run("last disconnect broadcasts offline_user once", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		alice, bob := newUser("alice"), newUser("bob")
		a1, a2 := offlineClient(t, hub, alice), offlineClient(t, hub, alice)
		b1 := offlineClient(t, hub, bob)

		hub.Unregister(a1)
		req.Empty(queued(t, b1))
		req.Empty(queued(t, a2))

		hub.Unregister(a2)
		frames := queued(t, b1)
		req.Equal([]string{EventOfflineUser}, eventNames(frames))
		var userID string
		req.NoError(json.Unmarshal(frames[0].Data, &userID))
		req.Equal(alice.ID.Hex(), userID)
		req.Empty(registry.ConnectionsFor(alice.ID.Hex()))
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		req := require.New(t)
		hub := NewHub(NewRegistry(), nil)
		alice := newUser("alice")
		a1 := offlineClient(t, hub, alice)

		for i := 0; i < sendBuffer; i++ {
			req.Equal(1, hub.EmitToUser(alice.ID.Hex(), "newMessage", i))
		}
		done := make(chan int)
		go func() { done <- hub.EmitToUser(alice.ID.Hex(), "newMessage", "overflow") }()
		select {
		case n := <-done:
			req.Zero(n)
		case <-time.After(time.Second):
			t.Fatal("emit blocked on a full buffer")
		}
		req.Len(queued(t, a1), sendBuffer)
	})

	t.Run("closed hub refuses clients", func(t *testing.T) {
		hub := NewHub(NewRegistry(), nil)
		hub.Close()
		c := NewClient(nil, services.Identity{User: newUser("late")}, hub, NewWebSocketLogger(nil))
		require.False(t, hub.Register(c))
	})
}
