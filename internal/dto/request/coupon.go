package request

type CouponRequest struct {
	Code           string `json:"code" validate:"required,min=3,max=32"`
	DiscountType   string `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue  int64  `json:"discount_value" validate:"required,min=1"`
	MinOrderAmount int64  `json:"min_order_amount" validate:"min=0"`
	MaxDiscount    int64  `json:"max_discount" validate:"min=0"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	UsageLimit     int64  `json:"usage_limit" validate:"min=0"`
	PerUserLimit   int64  `json:"per_user_limit" validate:"min=0"`
}

type ValidateCouponRequest struct {
	Code        string `json:"code" validate:"required"`
	OrderAmount int64  `json:"order_amount" validate:"required,min=1"`
}
