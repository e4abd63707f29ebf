package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// OutboxMessage is a notification written in the same transaction as the
// state change it announces and relayed later by the outbox worker.
type OutboxMessage struct {
	ID            uuid.UUID    `db:"id"`
	AggregateType string       `db:"aggregate_type"`
	AggregateID   uuid.UUID    `db:"aggregate_id"`
	EventType     string       `db:"event_type"`
	Recipient     uuid.UUID    `db:"recipient_id"`
	Payload       []byte       `db:"payload"`
	Status        OutboxStatus `db:"status"`
	RetryCount    int          `db:"retry_count"`
	MaxRetries    int          `db:"max_retries"`
	LastError     *string      `db:"last_error"`
	CreatedAt     time.Time    `db:"created_at"`
	PublishedAt   *time.Time   `db:"published_at"`
}

func NewOutboxMessage(aggregateType string, aggregateID, recipient uuid.UUID, eventType string, payload any, now time.Time) (*OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxMessage{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Recipient:     recipient,
		Payload:       data,
		Status:        OutboxStatusPending,
		MaxRetries:    5,
		CreatedAt:     now,
	}, nil
}

func (m *OutboxMessage) CanRetry() bool {
	return m.Status == OutboxStatusFailed && m.RetryCount < m.MaxRetries
}

// BookingNotification is the payload of booking and payment events.
type BookingNotification struct {
	BookingID   string `json:"booking_id"`
	BookingCode string `json:"booking_code"`
	UserID      string `json:"user_id"`
	RoomID      string `json:"room_id"`
	PaymentID   string `json:"payment_id,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Status      string `json:"status"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
}
