package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Envelope struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload for the chat aggregate identified by chatID.
func NewEnvelope(eventType, chatID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:            uuid.NewString(),
		EventType:     eventType,
		AggregateType: "chat",
		AggregateID:   chatID,
		OccurredAt:    time.Now().UTC(),
		Payload:       raw,
	}, nil
}

func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

type Handler func(ctx context.Context, env Envelope) error

type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}
