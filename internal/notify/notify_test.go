package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	key   string
	items [][]byte
	err   error
}

func (f *fakeLister) LPush(_ context.Context, key string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.items = append(f.items, payload)
	return nil
}

func newMessage(t *testing.T) *entity.OutboxMessage {
	t.Helper()
	msg, err := entity.NewOutboxMessage("booking", uuid.New(), uuid.New(), entity.EventBookingConfirmed,
		entity.BookingNotification{BookingCode: "BK-20250101-000000-0001", Status: "CONFIRMED"},
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return msg
}

func TestRedisPublisher_Publish(t *testing.T) {
	lister := &fakeLister{}
	pub := NewRedisPublisher(lister, "hotel:notifications")
	msg := newMessage(t)

	require.NoError(t, pub.Publish(context.Background(), msg))
	require.Len(t, lister.items, 1)
	assert.Equal(t, "hotel:notifications", lister.key)

	var env Envelope
	require.NoError(t, json.Unmarshal(lister.items[0], &env))
	assert.Equal(t, msg.ID.String(), env.ID)
	assert.Equal(t, entity.EventBookingConfirmed, env.EventType)
	assert.Equal(t, msg.Recipient.String(), env.RecipientID)

	var payload entity.BookingNotification
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "BK-20250101-000000-0001", payload.BookingCode)
}

func TestRedisPublisher_PushError(t *testing.T) {
	pub := NewRedisPublisher(&fakeLister{err: errors.New("connection refused")}, "k")

	err := pub.Publish(context.Background(), newMessage(t))
	assert.ErrorContains(t, err, "connection refused")
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, NewLogPublisher(zap.NewNop()).Publish(context.Background(), newMessage(t)))
}
