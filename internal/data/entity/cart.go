package entity

import (
	"github.com/google/uuid"
)

// CartItem rows belong to an authenticated user; guests send items inline.
type CartItem struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	ProductID uuid.UUID  `db:"product_id"`
	VariantID *uuid.UUID `db:"variant_id"`
	Quantity  int64      `db:"quantity"`
}
