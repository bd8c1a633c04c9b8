package httpdto

import (
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/domain/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageResponse struct {
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	CreatedBy user.PublicProfile `json:"createdBy"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ChatResponse struct {
	ID           string               `json:"id"`
	Kind         chat.Kind            `json:"kind"`
	Participants []user.PublicProfile `json:"participants"`
	CreatedBy    user.PublicProfile   `json:"createdBy"`
	GroupName    string               `json:"groupName,omitempty"`
	GroupImage   string               `json:"groupImage,omitempty"`
	RoomID       string               `json:"roomId,omitempty"`
	Messages     []MessageResponse    `json:"messages"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// NewChatResponse renders c with user references replaced by profiles.
// Users missing from profiles are rendered with their id only.
func NewChatResponse(c chat.Chat, profiles map[primitive.ObjectID]user.PublicProfile) ChatResponse {
	profile := func(id primitive.ObjectID) user.PublicProfile {
		if p, ok := profiles[id]; ok {
			return p
		}
		return user.PublicProfile{ID: id.Hex()}
	}

	participants := make([]user.PublicProfile, 0, len(c.Participants))
	for _, id := range c.Participants {
		participants = append(participants, profile(id))
	}
	messages := make([]MessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, MessageResponse{
			ID:        m.ID.Hex(),
			Content:   m.Content,
			CreatedBy: profile(m.CreatedBy),
			CreatedAt: m.CreatedAt,
		})
	}

	return ChatResponse{
		ID:           c.ID.Hex(),
		Kind:         c.Kind,
		Participants: participants,
		CreatedBy:    profile(c.CreatedBy),
		GroupName:    c.GroupName,
		GroupImage:   c.GroupImage,
		RoomID:       c.RoomID,
		Messages:     messages,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
