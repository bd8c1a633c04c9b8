package repository

import (
	"context"

	"github.com/muhammedkh45/Echoo/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRevokedTokenRepository struct {
	coll *mongo.Collection
}

func NewRevokedTokenRepository(db *mongo.Database) RevokedTokenRepository {
	return &MongoRevokedTokenRepository{coll: db.Collection(database.RevokedTokenCollection)}
}

func (r *MongoRevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"tokenId": tokenID})
	if err != nil {
		return false, storeError("check revoked token", err, nil)
	}
	return n > 0, nil
}
