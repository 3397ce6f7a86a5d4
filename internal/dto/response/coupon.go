package response

import (
	"time"

	"glam-commerce/internal/data/entity"
)

type CouponResponse struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	DiscountType   entity.DiscountType `json:"discount_type"`
	DiscountValue  int64               `json:"discount_value"`
	MinOrderAmount int64               `json:"min_order_amount"`
	MaxDiscount    int64               `json:"max_discount,omitempty"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	UsageLimit     int64               `json:"usage_limit,omitempty"`
	PerUserLimit   int64               `json:"per_user_limit,omitempty"`
	UsedCount      int64               `json:"used_count"`
	IsActive       bool                `json:"is_active"`
}

type CouponValidationResponse struct {
	Valid          bool   `json:"valid"`
	DiscountAmount int64  `json:"discount_amount"`
	Reason         string `json:"reason,omitempty"`
}

func CouponToResponse(coupon *entity.Coupon) CouponResponse {
	return CouponResponse{
		ID:             coupon.ID.String(),
		Code:           coupon.Code,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
		MinOrderAmount: coupon.MinOrderAmount,
		MaxDiscount:    coupon.MaxDiscount,
		StartDate:      coupon.StartDate,
		EndDate:        coupon.EndDate,
		UsageLimit:     coupon.UsageLimit,
		PerUserLimit:   coupon.PerUserLimit,
		UsedCount:      coupon.UsedCount,
		IsActive:       coupon.IsActive,
	}
}
