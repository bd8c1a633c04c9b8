package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NatsConfig struct {
	URL           string
	Name          string
	SubjectPrefix string
	// Queue group shared by every instance, so each event is handled once.
	Queue          string
	HandlerTimeout time.Duration
}

// NatsBus publishes envelopes as JSON on "<prefix>.<event type>" subjects.
type NatsBus struct {
	cfg    NatsConfig
	nc     *nats.Conn
	logger *logger.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewNatsBus(cfg NatsConfig, l *logger.Logger) (*NatsBus, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url missing")
	}
	if cfg.Queue == "" {
		cfg.Queue = "echoo-workers"
	}
	if cfg.HandlerTimeout == 0 {
		cfg.HandlerTimeout = 30 * time.Second
	}
	if l == nil {
		l = logger.NewNop()
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(500 * time.Millisecond),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(3 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Infof("nats reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NatsBus{cfg: cfg, nc: nc, logger: l}, nil
}

func (b *NatsBus) subject(eventType string) string {
	if b.cfg.SubjectPrefix == "" {
		return eventType
	}
	return b.cfg.SubjectPrefix + "." + eventType
}

func (b *NatsBus) Publish(_ context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.nc.Publish(b.subject(env.EventType), data)
}

func (b *NatsBus) Subscribe(eventType string, handler Handler) error {
	sub, err := b.nc.QueueSubscribe(b.subject(eventType), b.cfg.Queue, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			b.logger.Logger.Warn("dropping malformed event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), b.cfg.HandlerTimeout)
		defer cancel()
		if err := handler(ctx, env); err != nil {
			b.logger.Logger.Warn("event handler failed",
				zap.String("event_type", env.EventType),
				zap.String("event_id", env.ID),
				zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", eventType, err)
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

// Close drains subscriptions before closing the connection.
func (b *NatsBus) Close() error {
	b.mu.Lock()
	for _, sub := range b.subs {
		_ = sub.Drain()
	}
	b.subs = nil
	b.mu.Unlock()
	return b.nc.Drain()
}
