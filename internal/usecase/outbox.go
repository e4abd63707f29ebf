package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/response"
)

const aggregateBooking = "booking"

// enqueueBookingEvent writes a notification row with repo, which is expected to
// share the transaction of the state change it announces.
func enqueueBookingEvent(ctx context.Context, repo *repository.Repository, b *entity.Booking, p *entity.Payment, event string, now time.Time) error {
	payload := entity.BookingNotification{
		BookingID:   b.ID.String(),
		BookingCode: b.Code,
		UserID:      b.UserID.String(),
		RoomID:      b.RoomID.String(),
		Status:      string(b.Status),
		CheckIn:     response.FormatDate(b.CheckIn),
		CheckOut:    response.FormatDate(b.CheckOut),
	}
	if p != nil {
		payload.PaymentID = p.ID.String()
		payload.Amount = p.Amount.String()
	}

	msg, err := entity.NewOutboxMessage(aggregateBooking, b.ID, b.UserID, event, payload, now)
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", event, err)
	}

	return repo.Outbox.Create(ctx, msg)
}
