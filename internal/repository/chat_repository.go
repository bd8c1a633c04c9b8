package repository

import (
	"context"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/pkg/database"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoChatRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &MongoChatRepository{coll: db.Collection(database.ChatsCollection), now: time.Now}
}

func directFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"kind": chat.KindDirect, "pairKey": chat.PairKey(a, b)}
}

func (r *MongoChatRepository) FindDirectChat(ctx context.Context, a, b primitive.ObjectID) (chat.Chat, error) {
	var c chat.Chat
	err := r.coll.FindOne(ctx, directFilter(a, b)).Decode(&c)
	if err != nil {
		return chat.Chat{}, storeError("find direct chat", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}

func (r *MongoChatRepository) CreateDirectChat(ctx context.Context, from, to primitive.ObjectID, first chat.Message) (chat.Chat, error) {
	c := chat.NewDirectChat(from, to, first, r.now())
	c.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return chat.Chat{}, storeError("create direct chat", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}

func (r *MongoChatRepository) AppendMessage(ctx context.Context, chatID, sender primitive.ObjectID, kind chat.Kind, msg chat.Message) (chat.Chat, error) {
	filter := bson.M{
		"_id":          chatID,
		"kind":         kind,
		"participants": sender,
	}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": r.now()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"messages": bson.M{"$slice": -1}})

	var c chat.Chat
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return chat.Chat{}, storeError("append message", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}

func (r *MongoChatRepository) FindGroupChat(ctx context.Context, ref string, member primitive.ObjectID) (chat.Chat, error) {
	filter := bson.M{
		"kind":         chat.KindGroup,
		"participants": member,
	}
	if id, ok := ParseRef(ref); ok {
		filter["_id"] = id
	} else {
		filter["roomId"] = ref
	}

	var c chat.Chat
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		return chat.Chat{}, storeError("find group chat", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}

func (r *MongoChatRepository) CreateGroupChat(ctx context.Context, c chat.Chat) (chat.Chat, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return chat.Chat{}, storeError("create group chat", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}

// DirectChatPage slices the message array server side. Page 1 is the newest
// limit messages; a page past the start yields no messages.
func (r *MongoChatRepository) DirectChatPage(ctx context.Context, a, b primitive.ObjectID, page, limit int) (chat.Chat, error) {
	newerCount := (page - 1) * limit
	window := bson.M{"$subtract": bson.A{"$$n", newerCount}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: directFilter(a, b)}},
		{{Key: "$addFields", Value: bson.M{
			"messages": bson.M{"$let": bson.M{
				"vars": bson.M{"n": bson.M{"$size": "$messages"}},
				"in": bson.M{"$cond": bson.A{
					bson.M{"$lte": bson.A{window, 0}},
					bson.A{},
					bson.M{"$slice": bson.A{
						"$messages",
						bson.M{"$max": bson.A{bson.M{"$subtract": bson.A{"$$n", page * limit}}, 0}},
						bson.M{"$min": bson.A{limit, window}},
					}},
				}},
			}},
		}}},
		{{Key: "$limit", Value: 1}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return chat.Chat{}, storeError("direct chat page", err, echoo_errors.ErrChatNotFound)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return chat.Chat{}, storeError("direct chat page", err, echoo_errors.ErrChatNotFound)
		}
		return chat.Chat{}, echoo_errors.ErrChatNotFound
	}
	var c chat.Chat
	if err := cur.Decode(&c); err != nil {
		return chat.Chat{}, storeError("decode direct chat", err, echoo_errors.ErrChatNotFound)
	}
	return c, nil
}
