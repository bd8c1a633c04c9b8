package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisBridge(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	newRedis := func() *goredis.Client {
		c := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = c.Close() })
		return c
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hubA, hubB := NewHub(NewRegistry(), nil), NewHub(NewRegistry(), nil)
	bridgeA := NewRedisBridge(newRedis(), hubA, "node-a", "", nil)
	bridgeB := NewRedisBridge(newRedis(), hubB, "node-b", "", nil)
	req.NoError(bridgeA.Run(ctx))
	req.NoError(bridgeB.Run(ctx))

	alice, bob := newUser("alice"), newUser("bob")
	a1 := offlineClient(t, hubA, alice)
	a2 := offlineClient(t, hubB, alice)
	b1 := offlineClient(t, hubB, bob)
	req.True(bridgeB.Join(b1.ID, "team-x_abc123"))

	// counts cover local connections only
	req.Equal(1, bridgeA.EmitToUser(alice.ID.Hex(), EventOfflineUser, "x"))
	req.Len(queued(t, a1), 1)

	var remote []Frame
	req.Eventually(func() bool {
		remote = append(remote, queued(t, a2)...)
		return len(remote) == 1
	}, time.Second, 10*time.Millisecond)
	req.Equal(EventOfflineUser, remote[0].Event)
	req.JSONEq(`"x"`, string(remote[0].Data))

	req.Zero(bridgeA.EmitToRoom("team-x_abc123", "newMessage", map[string]string{"content": "hi"}))
	var room []Frame
	req.Eventually(func() bool {
		room = append(room, queued(t, b1)...)
		return len(room) == 1
	}, time.Second, 10*time.Millisecond)
	req.JSONEq(`{"content":"hi"}`, string(room[0].Data))

	// an instance ignores its own messages
	time.Sleep(50 * time.Millisecond)
	req.Empty(queued(t, a1))
}
