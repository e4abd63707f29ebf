package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Coupon struct {
	Base
	Code           string           `db:"code"`
	Description    *string          `db:"description"`
	DiscountType   DiscountType     `db:"discount_type"`
	DiscountValue  decimal.Decimal  `db:"discount_value"`
	MinOrderAmount *decimal.Decimal `db:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `db:"max_discount_amount"`
	UsageLimit     *int             `db:"usage_limit"`
	UsedCount      int              `db:"used_count"`
	ValidFrom      time.Time        `db:"valid_from"`
	ValidUntil     time.Time        `db:"valid_until"`
	IsActive       bool             `db:"is_active"`
}

// NormalizeCouponCode is the stored form of a code; lookups are case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

func (c *Coupon) InWindow(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidUntil)
}

// IsValid reports whether the coupon may be applied at now, ignoring the
// order amount.
func (c *Coupon) IsValid(now time.Time) bool {
	return c.IsActive && c.InWindow(now) && !c.Exhausted()
}
