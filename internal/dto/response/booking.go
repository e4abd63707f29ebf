package response

import (
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/daterange"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"booking_code"`
	UserID          string                 `json:"user_id"`
	RoomID          string                 `json:"room_id"`
	RoomNumber      string                 `json:"room_number,omitempty"`
	CheckIn         string                 `json:"check_in"`
	CheckOut        string                 `json:"check_out"`
	Nights          int                    `json:"nights"`
	Guests          int                    `json:"guests"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Discount        decimal.Decimal        `json:"discount_amount"`
	TotalPrice      decimal.Decimal        `json:"total_price"`
	CouponCode      *string                `json:"coupon_code,omitempty"`
	Status          entity.BookingStatus   `json:"status"`
	SpecialRequests *string                `json:"special_requests,omitempty"`
	Services        entity.PremiumServices `json:"premium_services"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type QuoteResponse struct {
	RoomID      string          `json:"room_id"`
	CheckIn     string          `json:"check_in"`
	CheckOut    string          `json:"check_out"`
	Nights      int             `json:"nights"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount_amount"`
	Total       decimal.Decimal `json:"total_price"`
	CouponCode  *string         `json:"coupon_code,omitempty"`
	Available   bool            `json:"available"`
}

func BookingToResponse(b *entity.Booking, room *entity.Room) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		Code:            b.Code,
		UserID:          b.UserID.String(),
		RoomID:          b.RoomID.String(),
		CheckIn:         FormatDate(b.CheckIn),
		CheckOut:        FormatDate(b.CheckOut),
		Nights:          daterange.DaysBetween(b.CheckIn, b.CheckOut),
		Guests:          b.Guests,
		Subtotal:        b.Subtotal,
		Discount:        b.Discount,
		TotalPrice:      b.TotalPrice,
		CouponCode:      b.CouponCode,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		Services:        b.PremiumServices,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if room != nil {
		resp.RoomNumber = room.RoomNumber
	}

	return resp
}
