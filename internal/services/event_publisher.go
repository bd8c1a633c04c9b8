package services

import (
	"context"

	"github.com/muhammedkh45/Echoo/internal/domain/chat"
	"github.com/muhammedkh45/Echoo/internal/events"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const previewLength = 80

// EventPublisher turns chat outcomes into domain events. Publishing is best
// effort: a failure is logged and never changes the result of the operation
// that produced the event.
type EventPublisher struct {
	publisher events.Publisher
	logger    *logger.Logger
}

func NewEventPublisher(publisher events.Publisher, l *logger.Logger) *EventPublisher {
	if l == nil {
		l = logger.NewNop()
	}
	return &EventPublisher{publisher: publisher, logger: l}
}

func (p *EventPublisher) PublishGroupCreated(ctx context.Context, c chat.Chat) {
	p.publish(ctx, events.EventTypeGroupCreated, c.ID.Hex(), events.GroupCreatedPayload{
		ChatID:    c.ID.Hex(),
		RoomID:    c.RoomID,
		GroupName: c.GroupName,
		CreatedBy: c.CreatedBy.Hex(),
		Participants: lo.Map(c.Participants, func(id primitive.ObjectID, _ int) string {
			return id.Hex()
		}),
	})
}

func (p *EventPublisher) PublishMessageUndelivered(ctx context.Context, chatID, from, to primitive.ObjectID, content string) {
	preview := []rune(content)
	if len(preview) > previewLength {
		preview = append(preview[:previewLength], '…')
	}
	p.publish(ctx, events.EventTypeMessageUndelivered, chatID.Hex(), events.MessageUndeliveredPayload{
		ChatID:  chatID.Hex(),
		From:    from.Hex(),
		To:      to.Hex(),
		Preview: string(preview),
	})
}

func (p *EventPublisher) publish(ctx context.Context, eventType, chatID string, payload any) {
	if p == nil || p.publisher == nil {
		return
	}
	env, err := events.NewEnvelope(eventType, chatID, payload)
	if err == nil {
		err = p.publisher.Publish(ctx, env)
	}
	if err != nil {
		p.logger.WarnCtx(ctx, "failed to publish event",
			zap.String("event_type", eventType),
			zap.String("chat_id", chatID),
			zap.Error(err))
	}
}
