package request

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	VariantID string `json:"variant_id,omitempty" validate:"omitempty,uuid4"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

type GuestInfoRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required,min=5"`
	DeliveryZone    string             `json:"delivery_zone" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=gateway bank_transfer"`
	CouponCode      string             `json:"coupon_code,omitempty"`
	// Guest is required when the request carries no authenticated user.
	Guest *GuestInfoRequest `json:"guest,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered"`
	Note   string `json:"note,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}
