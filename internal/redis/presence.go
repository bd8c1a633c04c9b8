package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammedkh45/Echoo/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PresenceStatus represents a user's online status
type PresenceStatus struct {
	UserID   string    `json:"user_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
	Instance string    `json:"instance,omitempty"`
}

// Redis key prefixes for presence
const (
	presenceKeyPrefix = "presence:"       // JSON PresenceStatus per user
	presenceOnlineSet = "presence:online" // Set of online user IDs
)

// PresenceStore mirrors the in-process session registry into Redis so other
// instances and services can read who is online. The registry stays the
// source of truth for fan-out.
type PresenceStore struct {
	client   *goredis.Client
	ttl      time.Duration
	instance string
	timeout  time.Duration
	logger   *logger.Logger
}

func NewPresenceStore(client *goredis.Client, ttl time.Duration, instance string, l *logger.Logger) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &PresenceStore{
		client:   client,
		ttl:      ttl,
		instance: instance,
		timeout:  2 * time.Second,
		logger:   l,
	}
}

// SetOnline marks a user as online
func (p *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	status := PresenceStatus{
		UserID:   userID,
		IsOnline: true,
		LastSeen: time.Now().UTC(),
		Instance: p.instance,
	}
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, presenceKeyPrefix+userID, data, p.ttl)
	pipe.SAdd(ctx, presenceOnlineSet, userID)
	_, err = pipe.Exec(ctx)
	return err
}

// SetOffline marks a user as offline. The status is kept for a day so the
// last-seen time stays readable.
func (p *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	status := PresenceStatus{
		UserID:   userID,
		IsOnline: false,
		LastSeen: time.Now().UTC(),
	}
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, presenceKeyPrefix+userID, data, 24*time.Hour)
	pipe.SRem(ctx, presenceOnlineSet, userID)
	_, err = pipe.Exec(ctx)
	return err
}

// GetPresence returns the stored status; a user never seen is offline.
func (p *PresenceStore) GetPresence(ctx context.Context, userID string) (PresenceStatus, error) {
	data, err := p.client.Get(ctx, presenceKeyPrefix+userID).Bytes()
	if err == goredis.Nil {
		return PresenceStatus{UserID: userID}, nil
	}
	if err != nil {
		return PresenceStatus{}, err
	}
	var status PresenceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return PresenceStatus{}, err
	}
	return status, nil
}

func (p *PresenceStore) OnlineUsers(ctx context.Context) ([]string, error) {
	return p.client.SMembers(ctx, presenceOnlineSet).Result()
}

// Online and Offline satisfy the session registry's listener interface.
// Failures are logged only; presence in Redis is advisory.
func (p *PresenceStore) Online(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.SetOnline(ctx, userID); err != nil {
		p.logger.Logger.Warn("presence set online failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (p *PresenceStore) Offline(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.SetOffline(ctx, userID); err != nil {
		p.logger.Logger.Warn("presence set offline failed", zap.String("user_id", userID), zap.Error(err))
	}
}
