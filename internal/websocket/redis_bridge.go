package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultBridgeChannel = "echoo:fanout"

const (
	targetUser = "user"
	targetRoom = "room"
)

type bridgeMessage struct {
	Origin string          `json:"origin"`
	Target string          `json:"target"`
	Key    string          `json:"key"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// RedisBridge relays emits to the hubs of other instances over Redis
// pub/sub. Local delivery happens first; counts only cover local
// connections. Room joins stay local because connections are.
type RedisBridge struct {
	hub      *Hub
	client   *goredis.Client
	channel  string
	instance string
	timeout  time.Duration
	logger   *WebSocketLogger
}

func NewRedisBridge(client *goredis.Client, hub *Hub, instance, channel string, l *WebSocketLogger) *RedisBridge {
	if channel == "" {
		channel = DefaultBridgeChannel
	}
	if l == nil {
		l = NewWebSocketLogger(nil)
	}
	return &RedisBridge{
		hub:      hub,
		client:   client,
		channel:  channel,
		instance: instance,
		timeout:  2 * time.Second,
		logger:   l,
	}
}

func (b *RedisBridge) EmitToUser(userID, event string, data any) int {
	n := b.hub.EmitToUser(userID, event, data)
	b.publish(targetUser, userID, event, data)
	return n
}

func (b *RedisBridge) EmitToRoom(room, event string, data any) int {
	n := b.hub.EmitToRoom(room, event, data)
	b.publish(targetRoom, room, event, data)
	return n
}

func (b *RedisBridge) Join(connID, room string) bool {
	return b.hub.Join(connID, room)
}

// publish is best effort; local connections already have the frame.
func (b *RedisBridge) publish(target, key, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		b.logger.Error("bridge encode failed", "", "", err, zap.String("frame", event))
		return
	}
	msg, err := json.Marshal(bridgeMessage{Origin: b.instance, Target: target, Key: key, Event: event, Data: raw})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, msg).Err(); err != nil {
		b.logger.Warn("bridge publish failed", "", "", zap.String("frame", event), zap.Error(err))
	}
}

// Run subscribes to the bridge channel and delivers messages from other
// instances to local connections until ctx is done. It returns once the
// subscription is confirmed.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				b.relay(m.Payload)
			}
		}
	}()
	return nil
}

func (b *RedisBridge) relay(payload string) {
	var msg bridgeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		b.logger.Warn("bridge message dropped", "", "", zap.Error(err))
		return
	}
	if msg.Origin == b.instance {
		return
	}
	switch msg.Target {
	case targetUser:
		b.hub.EmitToUser(msg.Key, msg.Event, msg.Data)
	case targetRoom:
		b.hub.EmitToRoom(msg.Key, msg.Event, msg.Data)
	}
}
