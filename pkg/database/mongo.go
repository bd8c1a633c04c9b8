package database

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammedkh45/Echoo/config"
	"github.com/muhammedkh45/Echoo/internal/domain/chat"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ChatsCollection        = "chats"
	UsersCollection        = "users"
	RevokedTokenCollection = "revokeTokens"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials the server and pings it before returning.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetMaxPoolSize(100)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the indexes the chat queries rely on. The partial
// unique index on pairKey is what prevents two direct chats for one pair.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	chats := m.DB.Collection(ChatsCollection)
	_, err := chats.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().
				SetName("uniq_direct_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"kind": chat.KindDirect}),
		},
		{
			Keys: bson.D{{Key: "roomId", Value: 1}},
			Options: options.Index().
				SetName("uniq_group_room").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"kind": chat.KindGroup}),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index().SetName("participants_kind"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}

	revoked := m.DB.Collection(RevokedTokenCollection)
	_, err = revoked.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tokenId", Value: 1}},
			Options: options.Index().SetName("uniq_token").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("ttl_expires").SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create revoked token indexes: %w", err)
	}
	return nil
}

func (m *Mongo) HealthCheck(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("database not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
