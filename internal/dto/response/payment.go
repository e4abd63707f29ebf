package response

import (
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        string               `json:"payment_method"`
	Status        entity.PaymentStatus `json:"status"`
	TransactionID *string              `json:"transaction_id,omitempty"`
	BankCode      *string              `json:"bank_code,omitempty"`
	CardType      *string              `json:"card_type,omitempty"`
	ResponseCode  *string              `json:"response_code,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type PaymentIntentResponse struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
}

// ReconcileOutcome is advisory. The payment row is the source of truth.
type ReconcileOutcome struct {
	Valid        bool                 `json:"isValid"`
	Applied      bool                 `json:"applied"`
	Status       entity.PaymentStatus `json:"status,omitempty"`
	BookingID    string               `json:"bookingId,omitempty"`
	PaymentID    string               `json:"paymentId,omitempty"`
	ResponseCode string               `json:"responseCode"`
	Message      string               `json:"message"`
}

// IPNResponse is the body the gateway expects from its server call.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		BankCode:      p.BankCode,
		CardType:      p.CardType,
		ResponseCode:  p.ResponseCode,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}
