package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTransitions(t *testing.T) {
	all := []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCheckedIn,
		BookingStatusCheckedOut,
		BookingStatusCancelled,
	}
	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
		BookingStatusConfirmed: {BookingStatusCheckedIn: true, BookingStatusCancelled: true},
		BookingStatusCheckedIn: {BookingStatusCheckedOut: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	assert.True(t, BookingStatusPending.Blocks())
	assert.True(t, BookingStatusConfirmed.Blocks())
	assert.True(t, BookingStatusCheckedIn.Blocks())
	assert.False(t, BookingStatusCheckedOut.Blocks())
	assert.False(t, BookingStatusCancelled.Blocks())

	assert.True(t, BookingStatusConfirmed.Cancellable())
	assert.False(t, BookingStatusCheckedIn.Cancellable())
	assert.False(t, BookingStatusCheckedOut.Cancellable())
	assert.False(t, BookingStatusCancelled.Cancellable())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("checked_in")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusCheckedIn, s)

	_, err = ParseBookingStatus("EXPIRED")
	assert.Error(t, err)
}

func TestCouponValidity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limit := 2
	c := &Coupon{
		Code:          "SUMMER10",
		DiscountType:  DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		UsageLimit:    &limit,
		ValidFrom:     now.AddDate(0, 0, -1),
		ValidUntil:    now.AddDate(0, 0, 1),
		IsActive:      true,
	}

	assert.True(t, c.IsValid(now))
	assert.False(t, c.IsValid(now.AddDate(0, 0, 2)))
	assert.False(t, c.IsValid(now.AddDate(0, 0, -2)))

	c.UsedCount = 2
	assert.True(t, c.Exhausted())
	assert.False(t, c.IsValid(now))

	c.UsedCount = 0
	c.IsActive = false
	assert.False(t, c.IsValid(now))

	c.IsActive = true
	c.UsageLimit = nil
	c.UsedCount = 1000
	assert.True(t, c.IsValid(now))
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCouponCode("  summer10 "))
}

func TestOutboxCanRetry(t *testing.T) {
	m, err := NewOutboxMessage("booking", NewBaseSimple(time.Now()).ID, NewBaseSimple(time.Now()).ID, EventBookingConfirmed, BookingNotification{Status: "CONFIRMED"}, time.Now())
	require.NoError(t, err)

	assert.False(t, m.CanRetry())
	m.Status = OutboxStatusFailed
	m.RetryCount = 4
	assert.True(t, m.CanRetry())
	m.RetryCount = 5
	assert.False(t, m.CanRetry())
	assert.JSONEq(t, `{"booking_id":"","booking_code":"","user_id":"","room_id":"","status":"CONFIRMED","check_in":"","check_out":""}`, string(m.Payload))
}
