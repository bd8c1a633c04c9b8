//go:generate go run go.uber.org/mock/mockgen -source=message_dispatcher.go -destination=../mocks/mock_fanout.go -package=mocks
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/repository"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Outbound socket events
const (
	EventSuccessMessage = "successMessage"
	EventNewMessage     = "newMessage"
)

// Fanout delivers events to live connections. Emit calls return how many
// connections were reached; zero is not an error.
type Fanout interface {
	EmitToUser(userID, event string, data any) int
	EmitToRoom(room, event string, data any) int
	// Join subscribes one connection to room. It returns false when the
	// connection is already gone.
	Join(connID, room string) bool
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=4096"`
	SendTo  string `json:"sendTo" validate:"required,mongodb"`
}

type SendGroupMessageInput struct {
	Content string `json:"content" validate:"required,max=4096"`
	GroupID string `json:"groupId" validate:"required,mongodb"`
}

type JoinRoomInput struct {
	RoomID string `json:"roomId" validate:"required,max=128"`
}

// SuccessMessagePayload acknowledges a send on the sender's own connections.
type SuccessMessagePayload struct {
	Content   string    `json:"content"`
	ChatID    string    `json:"chatId"`
	MessageID string    `json:"messageId"`
	GroupID   string    `json:"groupId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewMessagePayload struct {
	Content   string             `json:"content"`
	From      user.PublicProfile `json:"from"`
	ChatID    string             `json:"chatId"`
	MessageID string             `json:"messageId"`
	GroupID   string             `json:"groupId,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

type MessageDispatcher struct {
	chats  repository.ChatRepository
	users  repository.UserRepository
	fanout Fanout
	events *EventPublisher
	locks  *PairLocker
	now    func() time.Time
	logger *logger.Logger
}

func NewMessageDispatcher(
	chats repository.ChatRepository,
	users repository.UserRepository,
	fanout Fanout,
	events *EventPublisher,
	l *logger.Logger,
) *MessageDispatcher {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageDispatcher{
		chats:  chats,
		users:  users,
		fanout: fanout,
		events: events,
		locks:  NewPairLocker(),
		now:    time.Now,
		logger: l,
	}
}

// SendMessage stores a direct message and fans it out to both users.
func (d *MessageDispatcher) SendMessage(ctx context.Context, from user.User, in SendMessageInput) (chat.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return chat.Message{}, err
	}
	to, _ := primitive.ObjectIDFromHex(in.SendTo)
	if to == from.ID {
		return chat.Message{}, echoo_errors.ErrRecipientNotFound
	}

	if _, err := d.users.FindContact(ctx, to, from.ID); err != nil {
		if errors.Is(err, echoo_errors.ErrNotFound) {
			return chat.Message{}, echoo_errors.ErrRecipientNotFound
		}
		return chat.Message{}, err
	}

	msg := chat.NewMessage(in.Content, from.ID, d.now())
	stored, err := d.storeDirect(ctx, from.ID, to, msg)
	if err != nil {
		return chat.Message{}, err
	}

	d.fanout.EmitToUser(from.ID.Hex(), EventSuccessMessage, SuccessMessagePayload{
		Content:   msg.Content,
		ChatID:    stored.ID.Hex(),
		MessageID: msg.ID.Hex(),
		CreatedAt: msg.CreatedAt,
	})
	reached := d.fanout.EmitToUser(to.Hex(), EventNewMessage, NewMessagePayload{
		Content:   msg.Content,
		From:      from.Public(),
		ChatID:    stored.ID.Hex(),
		MessageID: msg.ID.Hex(),
		CreatedAt: msg.CreatedAt,
	})
	if reached == 0 {
		d.events.PublishMessageUndelivered(ctx, stored.ID, from.ID, to, msg.Content)
	}
	return msg, nil
}

// storeDirect appends msg to the pair's chat, creating the chat on first use.
// The pair lock serializes this within the process; the unique pair index
// covers other processes, and losing that race turns into an append.
func (d *MessageDispatcher) storeDirect(ctx context.Context, from, to primitive.ObjectID, msg chat.Message) (chat.Chat, error) {
	unlock := d.locks.Lock(chat.PairKey(from, to))
	defer unlock()

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := d.chats.FindDirectChat(ctx, from, to)
		if err == nil {
			return d.chats.AppendMessage(ctx, existing.ID, from, chat.KindDirect, msg)
		}
		if !errors.Is(err, echoo_errors.ErrChatNotFound) {
			return chat.Chat{}, err
		}

		created, err := d.chats.CreateDirectChat(ctx, from, to, msg)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, echoo_errors.ErrAlreadyExists) {
			return chat.Chat{}, err
		}
		d.logger.InfoCtx(ctx, "direct chat created concurrently, retrying as append",
			zap.String("pair", chat.PairKey(from, to)))
	}
	return chat.Chat{}, fmt.Errorf("direct chat for %s kept conflicting: %w", chat.PairKey(from, to), echoo_errors.ErrStoreUnavailable)
}

// SendGroupMessage appends to a group the sender belongs to and broadcasts
// on the group's room. Non-members get the same error as a missing group.
func (d *MessageDispatcher) SendGroupMessage(ctx context.Context, from user.User, in SendGroupMessageInput) (chat.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return chat.Message{}, err
	}
	groupID, _ := primitive.ObjectIDFromHex(in.GroupID)

	msg := chat.NewMessage(in.Content, from.ID, d.now())
	group, err := d.chats.AppendMessage(ctx, groupID, from.ID, chat.KindGroup, msg)
	if err != nil {
		return chat.Message{}, err
	}

	d.fanout.EmitToUser(from.ID.Hex(), EventSuccessMessage, SuccessMessagePayload{
		Content:   msg.Content,
		ChatID:    group.ID.Hex(),
		MessageID: msg.ID.Hex(),
		GroupID:   group.ID.Hex(),
		CreatedAt: msg.CreatedAt,
	})
	d.fanout.EmitToRoom(group.RoomID, EventNewMessage, NewMessagePayload{
		Content:   msg.Content,
		From:      from.Public(),
		ChatID:    group.ID.Hex(),
		MessageID: msg.ID.Hex(),
		GroupID:   group.ID.Hex(),
		CreatedAt: msg.CreatedAt,
	})
	return msg, nil
}

// JoinRoom subscribes one connection to a group room after checking
// membership. Other connections of the same user are not affected.
func (d *MessageDispatcher) JoinRoom(ctx context.Context, from user.User, connID string, in JoinRoomInput) error {
	in.RoomID = strings.TrimSpace(in.RoomID)
	if err := validateInput(in); err != nil {
		return err
	}

	group, err := d.chats.FindGroupChat(ctx, in.RoomID, from.ID)
	if err != nil {
		return err
	}

	// the connection may have closed while the lookup was in flight
	if !d.fanout.Join(connID, group.RoomID) {
		d.logger.InfoCtx(ctx, "join skipped, connection closed",
			zap.String("conn_id", connID),
			zap.String("room_id", group.RoomID))
	}
	return nil
}
