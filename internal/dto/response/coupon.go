package response

import (
	"time"

	"hotel-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type CouponResponse struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	Description    *string             `json:"description,omitempty"`
	DiscountType   entity.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal     `json:"discount_value"`
	MinOrderAmount *decimal.Decimal    `json:"min_order_amount,omitempty"`
	MaxDiscount    *decimal.Decimal    `json:"max_discount_amount,omitempty"`
	UsageLimit     *int                `json:"usage_limit,omitempty"`
	UsedCount      int                 `json:"used_count"`
	ValidFrom      time.Time           `json:"valid_from"`
	ValidUntil     time.Time           `json:"valid_until"`
	IsActive       bool                `json:"is_active"`
}

type CouponValidationResponse struct {
	Valid       bool            `json:"valid"`
	Message     string          `json:"message,omitempty"`
	Coupon      *CouponResponse `json:"coupon,omitempty"`
	Discount    decimal.Decimal `json:"discount_amount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

func CouponToResponse(c *entity.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID.String(),
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		IsActive:       c.IsActive,
	}
}
