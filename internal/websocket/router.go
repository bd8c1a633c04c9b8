package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/redis"
	"github.com/muhammedkh45/Echoo/internal/services"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"go.uber.org/zap"
)

const eventTimeout = 15 * time.Second

type Dispatcher interface {
	SendMessage(ctx context.Context, from user.User, in services.SendMessageInput) (chat.Message, error)
	SendGroupMessage(ctx context.Context, from user.User, in services.SendGroupMessageInput) (chat.Message, error)
	JoinRoom(ctx context.Context, from user.User, connID string, in services.JoinRoomInput) error
}

// MessageLimiter caps how many messages a user may send per window.
type MessageLimiter interface {
	AllowMessage(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// Router binds inbound event names to dispatcher calls. One router serves
// every connection.
type Router struct {
	dispatcher Dispatcher
	limiter    MessageLimiter
	logger     *WebSocketLogger
}

// NewRouter creates a router. limiter may be nil.
func NewRouter(dispatcher Dispatcher, limiter MessageLimiter, l *WebSocketLogger) *Router {
	if l == nil {
		l = NewWebSocketLogger(nil)
	}
	return &Router{dispatcher: dispatcher, limiter: limiter, logger: l}
}

// Handle processes one inbound frame. Failures, including panics, are
// reported to the sending connection only.
func (r *Router) Handle(ctx context.Context, c *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
		c.ReplyError("", fmt.Errorf("%w: malformed frame", echoo_errors.ErrInvalidInput))
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event handler panicked", c.UserID, c.ID,
				fmt.Errorf("panic: %v", rec), zap.String("frame", frame.Event))
			c.ReplyError(frame.Event, fmt.Errorf("panic in %s handler", frame.Event))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	if err := r.route(ctx, c, frame); err != nil {
		r.logger.Warn("event failed", c.UserID, c.ID,
			zap.String("frame", frame.Event), zap.Error(err))
		c.ReplyError(frame.Event, err)
	}
}

func (r *Router) route(ctx context.Context, c *Client, frame Frame) error {
	from := c.Identity.User

	switch frame.Event {
	case EventSendMessage:
		var in services.SendMessageInput
		if err := decodeData(frame.Data, &in); err != nil {
			return err
		}
		if err := r.allow(ctx, c); err != nil {
			return err
		}
		_, err := r.dispatcher.SendMessage(ctx, from, in)
		return err

	case EventSendGroupMessage:
		var in services.SendGroupMessageInput
		if err := decodeData(frame.Data, &in); err != nil {
			return err
		}
		if err := r.allow(ctx, c); err != nil {
			return err
		}
		_, err := r.dispatcher.SendGroupMessage(ctx, from, in)
		return err

	case EventJoinRoom:
		var in services.JoinRoomInput
		if err := decodeData(frame.Data, &in); err != nil {
			return err
		}
		return r.dispatcher.JoinRoom(ctx, from, c.ID, in)

	default:
		return fmt.Errorf("%w: unknown event %q", echoo_errors.ErrInvalidInput, frame.Event)
	}
}

// allow fails open when the limiter itself is unavailable.
func (r *Router) allow(ctx context.Context, c *Client) error {
	if r.limiter == nil {
		return nil
	}
	res, err := r.limiter.AllowMessage(ctx, c.UserID)
	if err != nil {
		r.logger.Warn("rate limiter unavailable", c.UserID, c.ID, zap.Error(err))
		return nil
	}
	if !res.Allowed {
		return echoo_errors.ErrRateLimited
	}
	return nil
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", echoo_errors.ErrInvalidInput)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", echoo_errors.ErrInvalidInput, err)
	}
	return nil
}
