package request

type ProductVariantRequest struct {
	VariantType     string `json:"variant_type" validate:"required"`
	Value           string `json:"value" validate:"required"`
	SKU             string `json:"sku" validate:"required"`
	Stock           int64  `json:"stock" validate:"min=0"`
	PriceAdjustment int64  `json:"price_adjustment"`
}

type ProductRequest struct {
	CategoryID        string                  `json:"category_id" validate:"required,uuid4"`
	Name              string                  `json:"name" validate:"required,min=2"`
	Slug              string                  `json:"slug" validate:"required,min=2"`
	Description       string                  `json:"description,omitempty"`
	Price             int64                   `json:"price" validate:"required,min=1"`
	ComparePrice      int64                   `json:"compare_price" validate:"min=0"`
	Stock             int64                   `json:"stock" validate:"min=0"`
	LowStockThreshold int64                   `json:"low_stock_threshold" validate:"min=0"`
	IsActive          *bool                   `json:"is_active,omitempty"`
	Variants          []ProductVariantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}
