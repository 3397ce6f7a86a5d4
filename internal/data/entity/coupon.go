package entity

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Amounts are kobo; DiscountValue is a percentage (0-100) for percentage
// coupons and a kobo amount for fixed coupons.
type Coupon struct {
	BaseNoDelete
	Code           string       `db:"code"`
	DiscountType   DiscountType `db:"discount_type"`
	DiscountValue  int64        `db:"discount_value"`
	MinOrderAmount int64        `db:"min_order_amount"`
	MaxDiscount    int64        `db:"max_discount"` // percentage type only; 0 = uncapped
	StartDate      time.Time    `db:"start_date"`
	EndDate        time.Time    `db:"end_date"`
	UsageLimit     int64        `db:"usage_limit"`    // 0 = unlimited
	PerUserLimit   int64        `db:"per_user_limit"` // 0 = unlimited
	UsedCount      int64        `db:"used_count"`
	IsActive       bool         `db:"is_active"`
}

type CouponUsage struct {
	BaseSimple
	CouponID    uuid.UUID  `db:"coupon_id"`
	UserID      *uuid.UUID `db:"user_id"`
	OrderNumber string     `db:"order_number"`
}

// CalculateDiscount computes the kobo discount for an order amount. It is a
// pure function: usage bookkeeping happens separately after the order exists.
func (c *Coupon) CalculateDiscount(orderAmount int64) int64 {
	if orderAmount < c.MinOrderAmount {
		return 0
	}

	switch c.DiscountType {
	case DiscountTypePercentage:
		discount := orderAmount * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
		return discount
	case DiscountTypeFixed:
		if c.DiscountValue > orderAmount {
			return orderAmount
		}
		return c.DiscountValue
	default:
		return 0
	}
}
