package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

const PaymentMethodVNPay = "VNPAY"

type Payment struct {
	BaseNoDelete
	BookingID     uuid.UUID       `db:"booking_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"payment_method"`
	Status        PaymentStatus   `db:"status"`
	TransactionID *string         `db:"transaction_id"`
	BankCode      *string         `db:"bank_code"`
	CardType      *string         `db:"card_type"`
	ResponseCode  *string         `db:"response_code"`
	Description   *string         `db:"description"`
	PaidAt        *time.Time      `db:"paid_at"`
}

// Settlement is the gateway result applied to a pending payment.
type Settlement struct {
	Status        PaymentStatus
	TransactionID *string
	BankCode      *string
	CardType      *string
	ResponseCode  string
	At            time.Time
}
