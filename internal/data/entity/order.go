package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPendingPayment      OrderStatus = "pending_payment"      // bank transfer, money not seen yet
	OrderStatusPendingVerification OrderStatus = "pending_verification" // gateway checkout in flight
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusProcessing          OrderStatus = "processing"
	OrderStatusShipped             OrderStatus = "shipped"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodGateway      PaymentMethod = "gateway"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentStatus string

const (
	PaymentStatusPending          PaymentStatus = "pending"
	PaymentStatusAwaitingTransfer PaymentStatus = "awaiting_transfer"
	PaymentStatusPaid             PaymentStatus = "paid"
	PaymentStatusFailed           PaymentStatus = "failed"
	PaymentStatusRefunded         PaymentStatus = "refunded"
)

// CancellableStatuses are the order states a non-admin owner may cancel from.
// Admin cancellation uses the same floor: shipped/delivered orders stay.
var CancellableStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPendingPayment,
	OrderStatusPendingVerification,
	OrderStatusProcessing,
}

// Amounts are kobo throughout. Invariant: Total = Subtotal + ShippingCost - Discount,
// floored at zero.
type Order struct {
	BaseNoDelete
	OrderNumber string     `db:"order_number"`
	UserID      *uuid.UUID `db:"user_id"` // nil for guest checkout

	GuestName  string `db:"guest_name"`
	GuestEmail string `db:"guest_email"`
	GuestPhone string `db:"guest_phone"`

	ShippingAddress string `db:"shipping_address"`
	DeliveryZone    string `db:"delivery_zone"`

	Subtotal     int64 `db:"subtotal"`
	ShippingCost int64 `db:"shipping_cost"`
	Discount     int64 `db:"discount"`
	Total        int64 `db:"total"`

	CouponID *uuid.UUID `db:"coupon_id"`

	Status           OrderStatus   `db:"status"`
	PaymentMethod    PaymentMethod `db:"payment_method"`
	PaymentStatus    PaymentStatus `db:"payment_status"`
	PaymentReference string        `db:"payment_reference"`
	PaidAt           *time.Time    `db:"paid_at"`

	CancelledAt      *time.Time `db:"cancelled_at"`
	CancelledBy      *uuid.UUID `db:"cancelled_by"`
	CancellationNote string     `db:"cancellation_note"`

	Items   []*OrderItem          `db:"-"`
	History []*OrderStatusHistory `db:"-"`
}

// OrderItem is a frozen snapshot of the product at order time.
type OrderItem struct {
	BaseSimple
	OrderID      uuid.UUID  `db:"order_id"`
	ProductID    uuid.UUID  `db:"product_id"`
	VariantID    *uuid.UUID `db:"variant_id"`
	ProductName  string     `db:"product_name"`
	VariantLabel string     `db:"variant_label"`
	UnitPrice    int64      `db:"unit_price"`
	Quantity     int64      `db:"quantity"`
	Subtotal     int64      `db:"subtotal"`
}

type OrderStatusHistory struct {
	BaseSimple
	OrderID uuid.UUID   `db:"order_id"`
	Status  OrderStatus `db:"status"`
	Note    string      `db:"note"`
	ActorID *uuid.UUID  `db:"actor_id"`
}

// ContactEmail returns the address confirmations go to.
func (o *Order) ContactEmail(userEmail string) string {
	if o.UserID != nil && userEmail != "" {
		return userEmail
	}
	return o.GuestEmail
}
