// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/repository"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repository.ChatRepository = (*ChatRepository)(nil)
	_ repository.UserRepository = (*UserRepository)(nil)
)

// ChatRepository keeps chats in process memory. It enforces the same
// one-direct-chat-per-pair rule as the unique index on pairKey.
type ChatRepository struct {
	mu    sync.Mutex
	chats map[primitive.ObjectID]*chat.Chat
	pairs map[string]primitive.ObjectID
	rooms map[string]primitive.ObjectID

	// Inserts counts successful chat creations.
	Inserts int
	// BeforeCreate, when set, runs before a direct chat insert is attempted.
	BeforeCreate func()
	// FailCreate, when set, is returned by CreateGroupChat.
	FailCreate error
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		chats: map[primitive.ObjectID]*chat.Chat{},
		pairs: map[string]primitive.ObjectID{},
		rooms: map[string]primitive.ObjectID{},
	}
}

func copyChat(c *chat.Chat) chat.Chat {
	out := *c
	out.Participants = append([]primitive.ObjectID(nil), c.Participants...)
	out.Messages = append([]chat.Message{}, c.Messages...)
	return out
}

func (r *ChatRepository) FindDirectChat(_ context.Context, a, b primitive.ObjectID) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.pairs[chat.PairKey(a, b)]
	if !ok {
		return chat.Chat{}, echoo_errors.ErrChatNotFound
	}
	return copyChat(r.chats[id]), nil
}

func (r *ChatRepository) CreateDirectChat(_ context.Context, from, to primitive.ObjectID, first chat.Message) (chat.Chat, error) {
	if r.BeforeCreate != nil {
		r.BeforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chat.PairKey(from, to)
	if _, ok := r.pairs[key]; ok {
		return chat.Chat{}, echoo_errors.ErrAlreadyExists
	}
	c := chat.NewDirectChat(from, to, first, time.Now())
	c.ID = primitive.NewObjectID()
	r.chats[c.ID] = &c
	r.pairs[key] = c.ID
	r.Inserts++
	return copyChat(&c), nil
}

func (r *ChatRepository) AppendMessage(_ context.Context, chatID, sender primitive.ObjectID, kind chat.Kind, msg chat.Message) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok || c.Kind != kind || !c.HasParticipant(sender) {
		return chat.Chat{}, echoo_errors.ErrChatNotFound
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	out := copyChat(c)
	out.Messages = []chat.Message{msg}
	return out, nil
}

func (r *ChatRepository) FindGroupChat(_ context.Context, ref string, member primitive.ObjectID) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := repository.ParseRef(ref)
	if !ok {
		id, ok = r.rooms[ref]
	}
	c, found := r.chats[id]
	if !ok || !found || !c.IsGroup() || !c.HasParticipant(member) {
		return chat.Chat{}, echoo_errors.ErrChatNotFound
	}
	return copyChat(c), nil
}

func (r *ChatRepository) CreateGroupChat(_ context.Context, c chat.Chat) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return chat.Chat{}, r.FailCreate
	}
	if _, ok := r.rooms[c.RoomID]; ok {
		return chat.Chat{}, echoo_errors.ErrAlreadyExists
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.chats[c.ID] = &c
	r.rooms[c.RoomID] = c.ID
	r.Inserts++
	return copyChat(&c), nil
}

func (r *ChatRepository) DirectChatPage(_ context.Context, a, b primitive.ObjectID, page, limit int) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.pairs[chat.PairKey(a, b)]
	if !ok {
		return chat.Chat{}, echoo_errors.ErrChatNotFound
	}
	out := copyChat(r.chats[id])
	n := len(out.Messages)
	end := n - (page-1)*limit
	if end <= 0 {
		out.Messages = []chat.Message{}
		return out, nil
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	out.Messages = out.Messages[start:end]
	return out, nil
}

// DirectChats returns every direct chat stored for the pair. More than one
// means the uniqueness rule was broken.
func (r *ChatRepository) DirectChats(a, b primitive.ObjectID) []chat.Chat {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chat.PairKey(a, b)
	var out []chat.Chat
	for _, c := range r.chats {
		if c.Kind == chat.KindDirect && c.PairKey == key {
			out = append(out, copyChat(c))
		}
	}
	return out
}

// UserRepository is a UserRepository over a fixed user set.
type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{users: map[primitive.ObjectID]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Befriend records a mutual contact between a and b.
func (r *UserRepository) Befriend(a, b primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua, ub := r.users[a], r.users[b]
	ua.Friends = append(ua.Friends, b)
	ub.Friends = append(ub.Friends, a)
	r.users[a], r.users[b] = ua, ub
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, echoo_errors.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []user.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) FindContact(_ context.Context, id, contactOf primitive.ObjectID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || !u.IsFriendOf(contactOf) {
		return user.User{}, echoo_errors.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) FindContacts(_ context.Context, ids []primitive.ObjectID, contactOf primitive.ObjectID) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []user.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok && u.IsFriendOf(contactOf) {
			out = append(out, u)
		}
	}
	return out, nil
}
