package request

import "github.com/shopspring/decimal"

// CreatePaymentRequest asks for a gateway redirect. A nil Amount pays the
// booking total.
type CreatePaymentRequest struct {
	BookingID string           `json:"booking_id" validate:"required,uuid"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}
