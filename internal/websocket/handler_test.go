package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/repository/repotest"
	"github.com/muhammedkh45/Echoo/internal/services"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var signingKey = []byte("socket-test-key")

type socketEnv struct {
	url      string
	chats    *repotest.ChatRepository
	registry *Registry
	hub      *Hub
	alice    user.User
	bob      user.User
	carol    user.User
	mallory  user.User
}

func newSocketEnv(t *testing.T) *socketEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &socketEnv{
		chats:   repotest.NewChatRepository(),
		alice:   newUser("alice"),
		bob:     newUser("bob"),
		carol:   newUser("carol"),
		mallory: newUser("mallory"),
	}
	users := repotest.NewUserRepository(env.alice, env.bob, env.carol, env.mallory)
	users.Befriend(env.alice.ID, env.bob.ID)
	users.Befriend(env.alice.ID, env.carol.ID)

	env.registry = NewRegistry()
	env.hub = NewHub(env.registry, nil)
	dispatcher := services.NewMessageDispatcher(env.chats, users, env.hub, nil, nil)
	auth := services.NewAuthService(map[string][]byte{"bearer": signingKey}, users, nil)

	ctx, cancel := context.WithCancel(context.Background())
	handler := NewHandler(ctx, auth, env.hub, NewRouter(dispatcher, nil, nil), 300*time.Millisecond, nil)

	r := gin.New()
	r.GET("/ws", handler.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		env.hub.Close()
		cancel()
		srv.Close()
	})

	env.url = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return env
}

func bearer(t *testing.T, u user.User) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(signingKey)
	require.NoError(t, err)
	return "Bearer " + token
}

// testConn reads frames on its own goroutine so tests can wait for specific
// events or assert silence.
type testConn struct {
	conn   *websocket.Conn
	frames chan Frame
	closed chan struct{}
}

func (e *socketEnv) dial(t *testing.T) *testConn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(e.url, nil)
	require.NoError(t, err)
	tc := &testConn{conn: conn, frames: make(chan Frame, 64), closed: make(chan struct{})}
	go func() {
		defer close(tc.closed)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var f Frame
			if json.Unmarshal(raw, &f) == nil {
				tc.frames <- f
			}
		}
	}()
	t.Cleanup(func() { _ = conn.Close() })
	return tc
}

func (e *socketEnv) connect(t *testing.T, u user.User) *testConn {
	t.Helper()
	tc := e.dial(t)
	tc.send(t, EventAuth, AuthPayload{Authorization: bearer(t, u)})
	f := tc.expect(t, EventAuthenticated)
	var p AuthenticatedPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	require.Equal(t, u.ID.Hex(), p.UserID)
	return tc
}

func (c *testConn) send(t *testing.T, event string, data any) {
	t.Helper()
	raw, err := encodeFrame(event, data)
	require.NoError(t, err)
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, raw))
}

func (c *testConn) expect(t *testing.T, event string) Frame {
	t.Helper()
	select {
	case f := <-c.frames:
		require.Equal(t, event, f.Event, "data: %s", f.Data)
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", event)
		return Frame{}
	}
}

func (c *testConn) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case f := <-c.frames:
		t.Fatalf("unexpected %s frame: %s", f.Event, f.Data)
	case <-time.After(d):
	}
}

func (c *testConn) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed")
	}
}

func TestHandshake(t *testing.T) {
	t.Run("valid credential registers the connection", func(t *testing.T) {
		env := newSocketEnv(t)
		env.connect(t, env.alice)
		require.Len(t, env.registry.ConnectionsFor(env.alice.ID.Hex()), 1)
	})

	rejected := []struct {
		name  string
		frame func(t *testing.T, env *socketEnv) (string, any)
	}{
		{"bad signature", func(t *testing.T, env *socketEnv) (string, any) {
			return EventAuth, AuthPayload{Authorization: "Bearer " + strings.Repeat("x", 20)}
		}},
		{"unknown scheme", func(t *testing.T, env *socketEnv) (string, any) {
			return EventAuth, AuthPayload{Authorization: strings.Replace(bearer(t, env.alice), "Bearer", "Basic", 1)}
		}},
		{"missing credential", func(t *testing.T, env *socketEnv) (string, any) {
			return EventAuth, AuthPayload{}
		}},
		{"first frame is not auth", func(t *testing.T, env *socketEnv) (string, any) {
			return EventSendMessage, map[string]string{"content": "hi", "sendTo": env.bob.ID.Hex()}
		}},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			env := newSocketEnv(t)
			tc := env.dial(t)
			event, data := tt.frame(t, env)
			tc.send(t, event, data)

			f := tc.expect(t, EventError)
			var p ErrorPayload
			req.NoError(json.Unmarshal(f.Data, &p))
			req.Equal(EventAuth, p.Event)
			req.Equal(echoo_errors.CodeUnauthorized, p.Code)
			tc.waitClosed(t)
			req.Zero(env.hub.ClientCount())
			req.Zero(env.registry.UserCount())
		})
	}

	t.Run("silent connection is closed after the timeout", func(t *testing.T) {
		env := newSocketEnv(t)
		tc := env.dial(t)
		tc.expect(t, EventError)
		tc.waitClosed(t)
		require.Zero(t, env.hub.ClientCount())
	})
}

func TestDirectMessageOverSockets(t *testing.T) {
	req := require.New(t)
	env := newSocketEnv(t)
	a1, a2 := env.connect(t, env.alice), env.connect(t, env.alice)
	b1, b2 := env.connect(t, env.bob), env.connect(t, env.bob)

	a1.send(t, EventSendMessage, services.SendMessageInput{Content: "hi", SendTo: env.bob.ID.Hex()})

	for _, c := range []*testConn{a1, a2} {
		f := c.expect(t, services.EventSuccessMessage)
		var p services.SuccessMessagePayload
		req.NoError(json.Unmarshal(f.Data, &p))
		req.Equal("hi", p.Content)
	}
	for _, c := range []*testConn{b1, b2} {
		f := c.expect(t, services.EventNewMessage)
		var p services.NewMessagePayload
		req.NoError(json.Unmarshal(f.Data, &p))
		req.Equal("hi", p.Content)
		req.Equal(env.alice.Public(), p.From)
	}

	chats := env.chats.DirectChats(env.alice.ID, env.bob.ID)
	req.Len(chats, 1)
	req.ElementsMatch([]primitive.ObjectID{env.alice.ID, env.bob.ID}, chats[0].Participants)
	req.Len(chats[0].Messages, 1)
	req.Equal(env.alice.ID, chats[0].Messages[0].CreatedBy)

	// failures stay on the originating connection
	b1.send(t, EventSendMessage, services.SendMessageInput{Content: "psst", SendTo: env.carol.ID.Hex()})
	f := b1.expect(t, EventError)
	var p ErrorPayload
	req.NoError(json.Unmarshal(f.Data, &p))
	req.Equal(echoo_errors.CodeNotFound, p.Code)
	b2.quiet(t, 150*time.Millisecond)

	// and the connection keeps working
	b1.send(t, EventSendMessage, services.SendMessageInput{Content: "back", SendTo: env.alice.ID.Hex()})
	b1.expect(t, services.EventSuccessMessage)
	a1.expect(t, services.EventNewMessage)
}

func TestGroupRoomsOverSockets(t *testing.T) {
	req := require.New(t)
	env := newSocketEnv(t)
	group, err := env.chats.CreateGroupChat(context.Background(), chat.NewGroupChat(
		env.alice.ID, "Team X", "", "team-x_abc123",
		[]primitive.ObjectID{env.bob.ID, env.carol.ID}, time.Now()))
	req.NoError(err)

	a1, a2 := env.connect(t, env.alice), env.connect(t, env.alice)
	b1 := env.connect(t, env.bob)
	c1 := env.connect(t, env.carol)
	m1 := env.connect(t, env.mallory)

	for _, c := range []*testConn{a1, b1, c1} {
		c.send(t, EventJoinRoom, services.JoinRoomInput{RoomID: group.RoomID})
	}
	req.Eventually(func() bool { return env.hub.RoomSize(group.RoomID) == 3 }, 2*time.Second, 10*time.Millisecond)

	m1.send(t, EventJoinRoom, services.JoinRoomInput{RoomID: group.RoomID})
	f := m1.expect(t, EventError)
	var joinErr ErrorPayload
	req.NoError(json.Unmarshal(f.Data, &joinErr))
	req.Equal(echoo_errors.CodeNotFound, joinErr.Code)
	req.Equal(3, env.hub.RoomSize(group.RoomID))

	c1.send(t, EventSendGroupMessage, services.SendGroupMessageInput{Content: "standup", GroupID: group.ID.Hex()})

	c1.expect(t, services.EventSuccessMessage)
	c1.expect(t, services.EventNewMessage)
	for _, c := range []*testConn{a1, b1} {
		f := c.expect(t, services.EventNewMessage)
		var p services.NewMessagePayload
		req.NoError(json.Unmarshal(f.Data, &p))
		req.Equal(group.ID.Hex(), p.GroupID)
		req.Equal(env.carol.Public(), p.From)
	}
	a2.quiet(t, 150*time.Millisecond)

	// non-member and unknown group look the same from outside
	m1.send(t, EventSendGroupMessage, services.SendGroupMessageInput{Content: "x", GroupID: group.ID.Hex()})
	m1.send(t, EventSendGroupMessage, services.SendGroupMessageInput{Content: "x", GroupID: primitive.NewObjectID().Hex()})
	var notMember, missing ErrorPayload
	req.NoError(json.Unmarshal(m1.expect(t, EventError).Data, &notMember))
	req.NoError(json.Unmarshal(m1.expect(t, EventError).Data, &missing))
	req.Equal(missing, notMember)
}

func TestOfflineUserBroadcast(t *testing.T) {
	req := require.New(t)
	env := newSocketEnv(t)
	a1, a2 := env.connect(t, env.alice), env.connect(t, env.alice)
	observer := env.connect(t, env.bob)

	req.NoError(a1.conn.Close())
	req.Eventually(func() bool {
		return len(env.registry.ConnectionsFor(env.alice.ID.Hex())) == 1
	}, 2*time.Second, 10*time.Millisecond)
	observer.quiet(t, 150*time.Millisecond)

	req.NoError(a2.conn.Close())
	f := observer.expect(t, EventOfflineUser)
	var userID string
	req.NoError(json.Unmarshal(f.Data, &userID))
	req.Equal(env.alice.ID.Hex(), userID)
	observer.quiet(t, 150*time.Millisecond)
	req.False(env.registry.IsOnline(env.alice.ID.Hex()))
}
