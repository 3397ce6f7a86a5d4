package request

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Slug        string `json:"slug" validate:"required,min=2"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}
