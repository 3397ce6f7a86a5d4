package request

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	VariantID string `json:"variant_id,omitempty" validate:"omitempty,uuid4"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}
