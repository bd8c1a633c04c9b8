//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRepository is the chat store adapter. Group lookups and appends are
// constrained to members at the query level, so a non-member and a missing
// chat both yield ErrChatNotFound.
type ChatRepository interface {
	FindDirectChat(ctx context.Context, a, b primitive.ObjectID) (chat.Chat, error)
	// CreateDirectChat returns ErrAlreadyExists when a direct chat for the
	// pair was created concurrently.
	CreateDirectChat(ctx context.Context, from, to primitive.ObjectID, first chat.Message) (chat.Chat, error)
	// AppendMessage pushes msg onto chat chatID if sender is a participant and
	// the chat is of the given kind. The returned chat carries only the
	// appended message.
	AppendMessage(ctx context.Context, chatID, sender primitive.ObjectID, kind chat.Kind, msg chat.Message) (chat.Chat, error)
	// FindGroupChat resolves ref as a chat id or a room id.
	FindGroupChat(ctx context.Context, ref string, member primitive.ObjectID) (chat.Chat, error)
	CreateGroupChat(ctx context.Context, c chat.Chat) (chat.Chat, error)
	// DirectChatPage returns the direct chat with only the requested page of
	// messages, counted from the newest.
	DirectChatPage(ctx context.Context, a, b primitive.ObjectID, page, limit int) (chat.Chat, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (user.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error)
	// FindContact returns user id only when contactOf is in its friends list.
	FindContact(ctx context.Context, id, contactOf primitive.ObjectID) (user.User, error)
	FindContacts(ctx context.Context, ids []primitive.ObjectID, contactOf primitive.ObjectID) ([]user.User, error)
}

type RevokedTokenRepository interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
