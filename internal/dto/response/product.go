package response

import (
	"time"

	"glam-commerce/internal/data/entity"
)

type ProductVariantResponse struct {
	ID              string `json:"id"`
	VariantType     string `json:"variant_type"`
	Value           string `json:"value"`
	SKU             string `json:"sku"`
	Stock           int64  `json:"stock"`
	PriceAdjustment int64  `json:"price_adjustment"`
}

type ProductResponse struct {
	ID           string                   `json:"id"`
	CategoryID   string                   `json:"category_id"`
	Name         string                   `json:"name"`
	Slug         string                   `json:"slug"`
	Description  string                   `json:"description,omitempty"`
	Price        int64                    `json:"price"`
	ComparePrice int64                    `json:"compare_price,omitempty"`
	Stock        int64                    `json:"stock"`
	LowStock     bool                     `json:"low_stock"`
	IsActive     bool                     `json:"is_active"`
	Variants     []ProductVariantResponse `json:"variants,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

func ProductToResponse(product *entity.Product) ProductResponse {
	variants := make([]ProductVariantResponse, len(product.Variants))
	for i, v := range product.Variants {
		variants[i] = ProductVariantResponse{
			ID:              v.ID.String(),
			VariantType:     v.VariantType,
			Value:           v.Value,
			SKU:             v.SKU,
			Stock:           v.Stock,
			PriceAdjustment: v.PriceAdjustment,
		}
	}

	stock := product.AvailableStock()

	return ProductResponse{
		ID:           product.ID.String(),
		CategoryID:   product.CategoryID.String(),
		Name:         product.Name,
		Slug:         product.Slug,
		Description:  product.Description,
		Price:        product.Price,
		ComparePrice: product.ComparePrice,
		Stock:        stock,
		LowStock:     product.LowStockThreshold > 0 && stock <= product.LowStockThreshold,
		IsActive:     product.IsActive,
		Variants:     variants,
		CreatedAt:    product.CreatedAt,
	}
}
