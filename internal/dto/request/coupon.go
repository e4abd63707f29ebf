package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code string `json:"code" validate:"required,min=3,max=50,alphanum"`
	UpdateCouponRequest
}

type UpdateCouponRequest struct {
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	DiscountType   string           `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxDiscount    *decimal.Decimal `json:"max_discount_amount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	ValidFrom      time.Time        `json:"valid_from" validate:"required"`
	ValidUntil     time.Time        `json:"valid_until" validate:"required"`
	IsActive       *bool            `json:"is_active,omitempty"`
}
