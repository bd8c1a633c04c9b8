package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/events"
	"github.com/muhammedkh45/Echoo/internal/repository/repotest"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingSink struct {
	mu    sync.Mutex
	mails []Mail
	err   error
}

func (s *recordingSink) Send(_ context.Context, m Mail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mails = append(s.mails, m)
	return s.err
}

func (s *recordingSink) sent() []Mail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mail(nil), s.mails...)
}

func mailUser(name string) user.User {
	return user.User{ID: primitive.NewObjectID(), FirstName: name, LastName: "doe", Email: name + "@example.com"}
}

func TestWorker(t *testing.T) {
	ctx := context.Background()
	alice, bob, carol := mailUser("alice"), mailUser("bob"), mailUser("carol")
	users := repotest.NewUserRepository(alice, bob, carol)

	t.Run("group created mails everyone but the creator", func(t *testing.T) {
		req := require.New(t)
		sink := &recordingSink{}
		w := NewWorker(users, sink, "echoo", nil)

		env, err := events.NewEnvelope(events.EventTypeGroupCreated, "c1", events.GroupCreatedPayload{
			ChatID:       "c1",
			RoomID:       "team-x_1",
			GroupName:    "Team X",
			CreatedBy:    alice.ID.Hex(),
			Participants: []string{alice.ID.Hex(), bob.ID.Hex(), carol.ID.Hex()},
		})
		req.NoError(err)
		req.NoError(w.HandleGroupCreated(ctx, env))

		mails := sink.sent()
		req.Len(mails, 2)
		req.ElementsMatch([]string{"bob@example.com", "carol@example.com"}, []string{mails[0].To, mails[1].To})
		req.Contains(mails[0].Subject, "Team X")
		req.Contains(mails[0].Body, "alice doe")
	})

	t.Run("undelivered message mails the recipient", func(t *testing.T) {
		req := require.New(t)
		sink := &recordingSink{}
		w := NewWorker(users, sink, "echoo", nil)

		env, err := events.NewEnvelope(events.EventTypeMessageUndelivered, "c1", events.MessageUndeliveredPayload{
			ChatID: "c1", From: alice.ID.Hex(), To: bob.ID.Hex(), Preview: "lunch?",
		})
		req.NoError(err)
		req.NoError(w.HandleMessageUndelivered(ctx, env))

		mails := sink.sent()
		req.Len(mails, 1)
		req.Equal("bob@example.com", mails[0].To)
		req.Contains(mails[0].Body, "lunch?")
	})

	t.Run("sink failure is reported to the bus", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("smtp down")}
		w := NewWorker(users, sink, "echoo", nil)
		env, err := events.NewEnvelope(events.EventTypeMessageUndelivered, "c1", events.MessageUndeliveredPayload{
			From: alice.ID.Hex(), To: bob.ID.Hex(),
		})
		require.NoError(t, err)
		require.Error(t, w.HandleMessageUndelivered(ctx, env))
	})

	t.Run("consumes events from the bus", func(t *testing.T) {
		req := require.New(t)
		bus := events.NewMemoryBus(nil, 8)
		defer bus.Close()
		sink := &recordingSink{}
		req.NoError(NewWorker(users, sink, "echoo", nil).Start(bus))

		env, err := events.NewEnvelope(events.EventTypeMessageUndelivered, "c1", events.MessageUndeliveredPayload{
			From: carol.ID.Hex(), To: alice.ID.Hex(), Preview: "hey",
		})
		req.NoError(err)
		req.NoError(bus.Publish(ctx, env))
		req.Eventually(func() bool { return len(sink.sent()) == 1 }, time.Second, 10*time.Millisecond)
	})
}

func TestSMTPSink(t *testing.T) {
	req := require.New(t)
	s := NewSMTPSink(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@echoo.local"})

	var gotAddr string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		req.Equal([]string{"bob@example.com"}, to)
		return nil
	}

	req.NoError(s.Send(context.Background(), Mail{
		To:      "bob@example.com",
		Subject: "hi\r\nBcc: everyone@example.com",
		Body:    "hello",
	}))
	req.Equal("smtp.example.com:587", gotAddr)
	req.NotContains(string(gotMsg), "\r\nBcc:")
	req.True(strings.HasSuffix(string(gotMsg), "\r\n\r\nhello"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(s.Send(ctx, Mail{To: "x@example.com"}), context.Canceled)
}
