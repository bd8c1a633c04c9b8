package user

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents the users collection. Only the fields the chat
// subsystem reads are mapped.
type User struct {
	ID           primitive.ObjectID   `bson:"_id"`
	FirstName    string               `bson:"fName"`
	LastName     string               `bson:"lName"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"`
	Role         Role                 `bson:"role,omitempty"`
	ProfileImage string               `bson:"profileImage,omitempty"`
	Friends      []primitive.ObjectID `bson:"friends,omitempty"`
	IsVerified   bool                 `bson:"isVerified"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

// PublicProfile is the part of a user that may be shown to other users.
type PublicProfile struct {
	ID           string `json:"id"`
	UserName     string `json:"userName"`
	FirstName    string `json:"fName"`
	LastName     string `json:"lName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (u User) UserName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID.Hex(),
		UserName:     u.UserName(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
}

func (u User) IsFriendOf(other primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == other {
			return true
		}
	}
	return false
}

// RevokedToken represents the revokeTokens collection.
type RevokedToken struct {
	TokenID   string             `bson:"tokenId"`
	UserID    primitive.ObjectID `bson:"userId"`
	ExpiresAt time.Time          `bson:"expiresAt"`
}
