package response

import (
	"time"

	"glam-commerce/internal/data/entity"
)

type OrderItemResponse struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id,omitempty"`
	ProductName  string `json:"product_name"`
	VariantLabel string `json:"variant_label,omitempty"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int64  `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

type OrderResponse struct {
	ID              string               `json:"id"`
	OrderNumber     string               `json:"order_number"`
	UserID          string               `json:"user_id,omitempty"`
	GuestName       string               `json:"guest_name,omitempty"`
	GuestEmail      string               `json:"guest_email,omitempty"`
	ShippingAddress string               `json:"shipping_address"`
	DeliveryZone    string               `json:"delivery_zone"`
	Subtotal        int64                `json:"subtotal"`
	ShippingCost    int64                `json:"shipping_cost"`
	Discount        int64                `json:"discount"`
	Total           int64                `json:"total"`
	Status          entity.OrderStatus   `json:"status"`
	PaymentMethod   entity.PaymentMethod `json:"payment_method"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	Items           []OrderItemResponse  `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`

	// BankDetails is populated for bank-transfer orders so the customer
	// knows where to pay.
	BankDetails *BankDetailsResponse `json:"bank_details,omitempty"`
}

type BankDetailsResponse struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

type OrderHistoryResponse struct {
	Status    entity.OrderStatus `json:"status"`
	Note      string             `json:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type OrderDetailResponse struct {
	OrderResponse
	History []OrderHistoryResponse `json:"history"`
}

func OrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		variantID := ""
		if item.VariantID != nil {
			variantID = item.VariantID.String()
		}
		items[i] = OrderItemResponse{
			ProductID:    item.ProductID.String(),
			VariantID:    variantID,
			ProductName:  item.ProductName,
			VariantLabel: item.VariantLabel,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		}
	}

	userID := ""
	if order.UserID != nil {
		userID = order.UserID.String()
	}

	return OrderResponse{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		UserID:          userID,
		GuestName:       order.GuestName,
		GuestEmail:      order.GuestEmail,
		ShippingAddress: order.ShippingAddress,
		DeliveryZone:    order.DeliveryZone,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Discount:        order.Discount,
		Total:           order.Total,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		PaidAt:          order.PaidAt,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
