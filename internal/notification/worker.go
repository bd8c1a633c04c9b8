package notification

import (
	"context"
	"fmt"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/events"
	"github.com/muhammedkh45/Echoo/internal/repository"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Worker turns chat domain events into e-mails. Its failures only reach the
// log; the operation that produced the event has already completed.
type Worker struct {
	users   repository.UserRepository
	sink    Sink
	appName string
	logger  *logger.Logger
}

func NewWorker(users repository.UserRepository, sink Sink, appName string, l *logger.Logger) *Worker {
	if l == nil {
		l = logger.NewNop()
	}
	return &Worker{users: users, sink: sink, appName: appName, logger: l}
}

// Start subscribes the worker to the events it handles.
func (w *Worker) Start(sub events.Subscriber) error {
	if err := sub.Subscribe(events.EventTypeGroupCreated, w.HandleGroupCreated); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.EventTypeGroupCreated, err)
	}
	if err := sub.Subscribe(events.EventTypeMessageUndelivered, w.HandleMessageUndelivered); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.EventTypeMessageUndelivered, err)
	}
	return nil
}

// HandleGroupCreated tells every participant except the creator that they
// were added.
func (w *Worker) HandleGroupCreated(ctx context.Context, env events.Envelope) error {
	var p events.GroupCreatedPayload
	if err := env.Decode(&p); err != nil {
		return err
	}

	ids := lo.FilterMap(p.Participants, func(raw string, _ int) (primitive.ObjectID, bool) {
		id, err := primitive.ObjectIDFromHex(raw)
		return id, err == nil && raw != p.CreatedBy
	})
	creator, err := w.lookup(ctx, p.CreatedBy)
	if err != nil {
		return err
	}
	members, err := w.users.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	var failed int
	for _, u := range members {
		err := w.sink.Send(ctx, Mail{
			To:      u.Email,
			Subject: fmt.Sprintf("[%s] You were added to %s", w.appName, p.GroupName),
			Body: fmt.Sprintf("Hi %s,\n\n%s added you to the group %q.\n",
				u.FirstName, creator.UserName(), p.GroupName),
		})
		if err != nil {
			failed++
			w.logger.WarnCtx(ctx, "group invite mail failed",
				zap.String("chat_id", p.ChatID),
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d group invite mails failed", failed, len(members))
	}
	return nil
}

// HandleMessageUndelivered mails a recipient who had no open connection.
func (w *Worker) HandleMessageUndelivered(ctx context.Context, env events.Envelope) error {
	var p events.MessageUndeliveredPayload
	if err := env.Decode(&p); err != nil {
		return err
	}
	to, err := w.lookup(ctx, p.To)
	if err != nil {
		return err
	}
	from, err := w.lookup(ctx, p.From)
	if err != nil {
		return err
	}
	return w.sink.Send(ctx, Mail{
		To:      to.Email,
		Subject: fmt.Sprintf("[%s] New message from %s", w.appName, from.UserName()),
		Body:    fmt.Sprintf("Hi %s,\n\n%s wrote:\n\n%s\n", to.FirstName, from.UserName(), p.Preview),
	})
}

func (w *Worker) lookup(ctx context.Context, hex string) (user.User, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return user.User{}, fmt.Errorf("bad user id %q: %w", hex, err)
	}
	return w.users.GetByID(ctx, id)
}
