// Package notify delivers outbox messages to whatever sends mail and push
// notifications to guests.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, msg *entity.OutboxMessage) error
}

// Envelope is the wire form of a notification.
type Envelope struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	RecipientID   string          `json:"recipient_id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewEnvelope(msg *entity.OutboxMessage) Envelope {
	return Envelope{
		ID:            msg.ID.String(),
		EventType:     msg.EventType,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID.String(),
		RecipientID:   msg.Recipient.String(),
		Payload:       json.RawMessage(msg.Payload),
		CreatedAt:     msg.CreatedAt,
	}
}

// Lister is the subset of the redis client the publisher needs.
type Lister interface {
	LPush(ctx context.Context, key string, payload []byte) error
}

// RedisPublisher pushes envelopes onto a redis list drained by the mailer.
type RedisPublisher struct {
	client Lister
	key    string
}

func NewRedisPublisher(client Lister, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg *entity.OutboxMessage) error {
	data, err := json.Marshal(NewEnvelope(msg))
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", msg.ID, err)
	}
	if err := p.client.LPush(ctx, p.key, data); err != nil {
		return fmt.Errorf("push notification %s to %s: %w", msg.ID, p.key, err)
	}
	return nil
}

// LogPublisher only logs. It stands in when redis is not configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(_ context.Context, msg *entity.OutboxMessage) error {
	p.log.Info("Notification",
		zap.String("message_id", msg.ID.String()),
		zap.String("event_type", msg.EventType),
		zap.String("recipient_id", msg.Recipient.String()),
		zap.ByteString("payload", msg.Payload))
	return nil
}
