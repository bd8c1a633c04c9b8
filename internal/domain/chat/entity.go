package chat

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind discriminates direct (one-to-one) chats from group chats.
type Kind string

const (
	KindDirect Kind = "direct"
	KindGroup  Kind = "group"
)

// Chat represents the chats collection. Messages are embedded and append-only.
type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Kind         Kind                 `bson:"kind"`
	Participants []primitive.ObjectID `bson:"participants"`
	CreatedBy    primitive.ObjectID   `bson:"createdBy"`

	// Direct only
	PairKey string `bson:"pairKey,omitempty"`

	// Group only
	GroupName  string `bson:"groupName,omitempty"`
	GroupImage string `bson:"groupImage,omitempty"`
	RoomID     string `bson:"roomId,omitempty"`

	Messages  []Message `bson:"messages"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Message is embedded in Chat.
type Message struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	CreatedBy primitive.ObjectID `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (c Chat) IsGroup() bool {
	return c.Kind == KindGroup
}

func (c Chat) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// LastMessage returns the newest message, if any.
func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

func NewMessage(content string, createdBy primitive.ObjectID, now time.Time) Message {
	return Message{
		ID:        primitive.NewObjectID(),
		Content:   content,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PairKey identifies the unordered pair {a, b}; PairKey(a, b) == PairKey(b, a).
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// NewDirectChat builds a direct chat seeded with its first message.
func NewDirectChat(from, to primitive.ObjectID, first Message, now time.Time) Chat {
	return Chat{
		Kind:         KindDirect,
		Participants: []primitive.ObjectID{from, to},
		CreatedBy:    from,
		PairKey:      PairKey(from, to),
		Messages:     []Message{first},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewGroupChat builds an empty group chat. The creator is appended to
// participants when missing.
func NewGroupChat(creator primitive.ObjectID, name, image, roomID string, participants []primitive.ObjectID, now time.Time) Chat {
	members := make([]primitive.ObjectID, 0, len(participants)+1)
	members = append(members, participants...)
	found := false
	for _, p := range members {
		if p == creator {
			found = true
			break
		}
	}
	if !found {
		members = append(members, creator)
	}
	return Chat{
		Kind:         KindGroup,
		Participants: members,
		CreatedBy:    creator,
		GroupName:    strings.TrimSpace(name),
		GroupImage:   image,
		RoomID:       roomID,
		Messages:     []Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
