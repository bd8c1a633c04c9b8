package repository

import (
	"context"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/pkg/database"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (user.User, error) {
	var u user.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return user.User{}, storeError("get user", err, echoo_errors.ErrNotFound)
	}
	return u, nil
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoUserRepository) FindContact(ctx context.Context, id, contactOf primitive.ObjectID) (user.User, error) {
	var u user.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "friends": contactOf}).Decode(&u)
	if err != nil {
		return user.User{}, storeError("find contact", err, echoo_errors.ErrNotFound)
	}
	return u, nil
}

func (r *MongoUserRepository) FindContacts(ctx context.Context, ids []primitive.ObjectID, contactOf primitive.ObjectID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "friends": contactOf})
}

func (r *MongoUserRepository) findMany(ctx context.Context, filter bson.M) ([]user.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find users", err, echoo_errors.ErrNotFound)
	}
	users := []user.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, storeError("decode users", err, echoo_errors.ErrNotFound)
	}
	return users, nil
}
