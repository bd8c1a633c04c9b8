package redis

import (
	"context"
	"testing"
	"time"

	"github.com/muhammedkh45/Echoo/config"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient_RequiresAddr(t *testing.T) {
	_, err := NewClient(context.Background(), config.RedisConfig{})
	require.Error(t, err)
}

func TestPresenceStore(t *testing.T) {
	req := require.New(t)
	mr, client := setupRedis(t)
	ctx := context.Background()
	store := NewPresenceStore(client, time.Minute, "node-1", nil)

	store.Online("u1")
	store.Online("u2")

	online, err := store.OnlineUsers(ctx)
	req.NoError(err)
	req.ElementsMatch([]string{"u1", "u2"}, online)

	status, err := store.GetPresence(ctx, "u1")
	req.NoError(err)
	req.True(status.IsOnline)
	req.Equal("node-1", status.Instance)
	req.Equal(time.Minute, mr.TTL("presence:u1"))

	store.Offline("u1")
	status, err = store.GetPresence(ctx, "u1")
	req.NoError(err)
	req.False(status.IsOnline)

	online, err = store.OnlineUsers(ctx)
	req.NoError(err)
	req.Equal([]string{"u2"}, online)

	unknown, err := store.GetPresence(ctx, "nobody")
	req.NoError(err)
	req.False(unknown.IsOnline)
}

func TestRateLimiter_AllowMessage(t *testing.T) {
	req := require.New(t)
	mr, client := setupRedis(t)
	ctx := context.Background()
	limiter := NewRateLimiter(client, RateLimitConfig{MessageLimit: 2, MessageWindow: time.Minute})

	first, err := limiter.AllowMessage(ctx, "u1")
	req.NoError(err)
	req.True(first.Allowed)
	req.Equal(1, first.Remaining)

	second, err := limiter.AllowMessage(ctx, "u1")
	req.NoError(err)
	req.True(second.Allowed)
	req.Equal(0, second.Remaining)

	third, err := limiter.AllowMessage(ctx, "u1")
	req.NoError(err)
	req.False(third.Allowed)

	other, err := limiter.AllowMessage(ctx, "u2")
	req.NoError(err)
	req.True(other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	again, err := limiter.AllowMessage(ctx, "u1")
	req.NoError(err)
	req.True(again.Allowed)

	req.NoError(limiter.ResetUser(ctx, "u1"))
	req.False(mr.Exists("ratelimit:u1:messages"))
}
