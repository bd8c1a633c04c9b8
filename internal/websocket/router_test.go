package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/redis"
	"github.com/muhammedkh45/Echoo/internal/services"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	sent    []services.SendMessageInput
	joined  []string
	sendErr error
	panics  bool
}

func (d *fakeDispatcher) SendMessage(_ context.Context, _ user.User, in services.SendMessageInput) (chat.Message, error) {
	if d.panics {
		panic("boom")
	}
	d.sent = append(d.sent, in)
	return chat.Message{}, d.sendErr
}

func (d *fakeDispatcher) SendGroupMessage(context.Context, user.User, services.SendGroupMessageInput) (chat.Message, error) {
	return chat.Message{}, echoo_errors.ErrChatNotFound
}

func (d *fakeDispatcher) JoinRoom(_ context.Context, _ user.User, connID string, in services.JoinRoomInput) error {
	d.joined = append(d.joined, connID+"/"+in.RoomID)
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (l fakeLimiter) AllowMessage(context.Context, string) (*redis.RateLimitResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &redis.RateLimitResult{Allowed: l.allowed}, nil
}

func errorOf(t *testing.T, frames []Frame) ErrorPayload {
	t.Helper()
	require.Len(t, frames, 1)
	require.Equal(t, EventError, frames[0].Event)
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(frames[0].Data, &p))
	return p
}

func TestRouter(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, d Dispatcher, limiter MessageLimiter) (*Router, *Client) {
		hub := NewHub(NewRegistry(), nil)
		return NewRouter(d, limiter, nil), offlineClient(t, hub, newUser("alice"))
	}

	t.Run("routes events to the dispatcher", func(t *testing.T) {
		req := require.New(t)
		d := &fakeDispatcher{}
		r, c := setup(t, d, nil)

		r.Handle(ctx, c, []byte(`{"event":"sendMessage","data":{"content":"hi","sendTo":"abc"}}`))
		r.Handle(ctx, c, []byte(`{"event":"joinRoom","data":{"roomId":"team-x_abc123"}}`))

		req.Equal([]services.SendMessageInput{{Content: "hi", SendTo: "abc"}}, d.sent)
		req.Equal([]string{c.ID + "/team-x_abc123"}, d.joined)
		req.Empty(queued(t, c))
	})

	t.Run("dispatcher errors go back to the sender", func(t *testing.T) {
		r, c := setup(t, &fakeDispatcher{}, nil)
		r.Handle(ctx, c, []byte(`{"event":"sendGroupMessage","data":{"content":"x","groupId":"g"}}`))

		p := errorOf(t, queued(t, c))
		require.Equal(t, ErrorPayload{Event: EventSendGroupMessage, Code: echoo_errors.CodeNotFound, Message: "not found"}, p)
	})

	t.Run("malformed and unknown frames", func(t *testing.T) {
		req := require.New(t)
		r, c := setup(t, &fakeDispatcher{}, nil)

		r.Handle(ctx, c, []byte(`not json`))
		req.Equal(echoo_errors.CodeInvalidRequest, errorOf(t, queued(t, c)).Code)

		r.Handle(ctx, c, []byte(`{"event":"deleteEverything","data":{}}`))
		p := errorOf(t, queued(t, c))
		req.Equal("deleteEverything", p.Event)
		req.Equal(echoo_errors.CodeInvalidRequest, p.Code)

		r.Handle(ctx, c, []byte(`{"event":"sendMessage"}`))
		req.Equal(echoo_errors.CodeInvalidRequest, errorOf(t, queued(t, c)).Code)
	})

	t.Run("panics are contained", func(t *testing.T) {
		req := require.New(t)
		d := &fakeDispatcher{panics: true}
		r, c := setup(t, d, nil)

		req.NotPanics(func() {
			r.Handle(ctx, c, []byte(`{"event":"sendMessage","data":{"content":"hi","sendTo":"abc"}}`))
		})
		req.Equal(echoo_errors.CodeInternal, errorOf(t, queued(t, c)).Code)

		d.panics = false
		r.Handle(ctx, c, []byte(`{"event":"sendMessage","data":{"content":"again","sendTo":"abc"}}`))
		req.Len(d.sent, 1)
	})

	t.Run("rate limited sends", func(t *testing.T) {
		req := require.New(t)
		d := &fakeDispatcher{}
		r, c := setup(t, d, fakeLimiter{allowed: false})

		r.Handle(ctx, c, []byte(`{"event":"sendMessage","data":{"content":"hi","sendTo":"abc"}}`))
		req.Equal(echoo_errors.CodeRateLimited, errorOf(t, queued(t, c)).Code)
		req.Empty(d.sent)

		// joins are not limited
		r.Handle(ctx, c, []byte(`{"event":"joinRoom","data":{"roomId":"r"}}`))
		req.Len(d.joined, 1)
	})

	t.Run("limiter outage fails open", func(t *testing.T) {
		d := &fakeDispatcher{}
		r, c := setup(t, d, fakeLimiter{err: errors.New("redis down")})

		r.Handle(ctx, c, []byte(`{"event":"sendMessage","data":{"content":"hi","sendTo":"abc"}}`))
		require.Len(t, d.sent, 1)
		require.Empty(t, queued(t, c))
	})
}
