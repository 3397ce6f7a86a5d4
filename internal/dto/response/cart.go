package response

import (
	"time"

	"glam-commerce/internal/data/entity"
)

type CartItemResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type SalonServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DurationMin int    `json:"duration_min"`
	Price       int64  `json:"price"`
}

func CartItemToResponse(item *entity.CartItem) CartItemResponse {
	variantID := ""
	if item.VariantID != nil {
		variantID = item.VariantID.String()
	}

	return CartItemResponse{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),
		VariantID: variantID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}
}

func SalonServiceToResponse(svc *entity.SalonService) SalonServiceResponse {
	return SalonServiceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		DurationMin: svc.DurationMin,
		Price:       svc.Price,
	}
}
