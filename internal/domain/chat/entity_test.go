package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKey_IsOrderIndependent(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	require.Equal(t, PairKey(a, b), PairKey(b, a))
	require.NotEqual(t, PairKey(a, b), PairKey(a, primitive.NewObjectID()))
}

func TestNewDirectChat(t *testing.T) {
	from, to := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()
	msg := NewMessage("hi", from, now)

	c := NewDirectChat(from, to, msg, now)

	require.Equal(t, KindDirect, c.Kind)
	require.False(t, c.IsGroup())
	require.Equal(t, []primitive.ObjectID{from, to}, c.Participants)
	require.Equal(t, from, c.CreatedBy)
	require.Equal(t, PairKey(to, from), c.PairKey)
	require.Empty(t, c.RoomID)
	last, ok := c.LastMessage()
	require.True(t, ok)
	require.Equal(t, "hi", last.Content)
}

func TestNewGroupChat_AddsCreatorOnce(t *testing.T) {
	creator, m1 := primitive.NewObjectID(), primitive.NewObjectID()

	c := NewGroupChat(creator, "  team x ", "", "team-x_1", []primitive.ObjectID{m1}, time.Now())
	require.Equal(t, KindGroup, c.Kind)
	require.True(t, c.IsGroup())
	require.Equal(t, "team x", c.GroupName)
	require.Len(t, c.Participants, 2)
	require.True(t, c.HasParticipant(creator))
	require.NotNil(t, c.Messages)

	c = NewGroupChat(creator, "g", "", "g_1", []primitive.ObjectID{m1, creator}, time.Now())
	require.Len(t, c.Participants, 2)
}
