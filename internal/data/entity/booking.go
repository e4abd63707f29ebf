package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn:  {BookingStatusCheckedOut},
	BookingStatusCheckedOut: {},
	BookingStatusCancelled:  {},
}

// BlockingStatuses are the statuses that hold a room's dates.
var BlockingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCheckedOut || s == BookingStatusCancelled
}

// Blocks reports whether a booking in this status occupies its dates.
func (s BookingStatus) Blocks() bool {
	return s.IsValid() && !s.IsTerminal()
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Cancellable is false once the stay has started or finished.
func (s BookingStatus) Cancellable() bool {
	return s.CanTransitionTo(BookingStatusCancelled)
}

type PremiumServices struct {
	AirportPickup bool `db:"airport_pickup" json:"airport_pickup"`
	Spa           bool `db:"spa_service" json:"spa_service"`
	Laundry       bool `db:"laundry_service" json:"laundry_service"`
	TourGuide     bool `db:"tour_guide" json:"tour_guide"`
}

type Booking struct {
	BaseNoDelete
	Code            string          `db:"booking_code"`
	UserID          uuid.UUID       `db:"user_id"`
	RoomID          uuid.UUID       `db:"room_id"`
	CheckIn         time.Time       `db:"check_in"`
	CheckOut        time.Time       `db:"check_out"`
	Guests          int             `db:"guests"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	Discount        decimal.Decimal `db:"discount_amount"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	CouponCode      *string         `db:"coupon_code"`
	Status          BookingStatus   `db:"status"`
	SpecialRequests *string         `db:"special_requests"`
	PremiumServices
}

func (b *Booking) OwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}
