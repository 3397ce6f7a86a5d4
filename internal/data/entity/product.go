package entity

import (
	"github.com/google/uuid"
)

// Product price fields are kobo (minor currency unit). Stock on the product
// row is authoritative only when the product has no variants; for variant
// products the aggregate is derived from the variant rows.
type Product struct {
	BaseNoDelete
	CategoryID        uuid.UUID `db:"category_id"`
	Name              string    `db:"name"`
	Slug              string    `db:"slug"`
	Description       string    `db:"description"`
	Price             int64     `db:"price"`
	ComparePrice      int64     `db:"compare_price"`
	Stock             int64     `db:"stock"`
	LowStockThreshold int64     `db:"low_stock_threshold"`
	HasVariants       bool      `db:"has_variants"`
	IsActive          bool      `db:"is_active"`

	Variants []*ProductVariant `db:"-"`
}

type ProductVariant struct {
	BaseSimple
	ProductID       uuid.UUID `db:"product_id"`
	VariantType     string    `db:"variant_type"` // e.g. "shade", "size"
	Value           string    `db:"value"`
	SKU             string    `db:"sku"`
	Stock           int64     `db:"stock"`
	PriceAdjustment int64     `db:"price_adjustment"` // kobo, added to base price
}

// AvailableStock returns the sellable quantity, deriving the aggregate from
// variants when they exist.
func (p *Product) AvailableStock() int64 {
	if !p.HasVariants {
		return p.Stock
	}
	var total int64
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// VariantByID returns the loaded variant with the given id, or nil.
func (p *Product) VariantByID(id uuid.UUID) *ProductVariant {
	for _, v := range p.Variants {
		if v.ID == id {
			return v
		}
	}
	return nil
}
