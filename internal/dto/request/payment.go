package request

type InitializePaymentRequest struct {
	Type        string `json:"type" validate:"required,oneof=order booking"`
	ReferenceID string `json:"referenceId" validate:"required,uuid4"`
	// Purpose disambiguates booking legs; defaults to "order"/"deposit" by type.
	Purpose string `json:"purpose,omitempty" validate:"omitempty,oneof=order deposit balance"`
	Amount  int64  `json:"amount" validate:"required,min=1"`
	Email   string `json:"email" validate:"required,email"`
}
