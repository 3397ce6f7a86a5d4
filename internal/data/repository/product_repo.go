package repository

import (
	"context"
	"fmt"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool, limit, offset int) ([]*entity.Product, error)
	CountAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) (int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Stock ledger. Reserve is a single conditional decrement so concurrent
	// orders for the last unit cannot both succeed; Release is the inverse
	// increment applied exactly once per reservation by its owning workflow.
	ReserveStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error
	ReleaseStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productColumns = `id, category_id, name, slug, description, price, compare_price,
	stock, low_stock_threshold, has_variants, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.ComparePrice,
		&p.Stock,
		&p.LowStockThreshold,
		&p.HasVariants,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO products (id, category_id, name, slug, description, price, compare_price,
			stock, low_stock_threshold, has_variants, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.ComparePrice,
		product.Stock,
		product.LowStockThreshold,
		product.HasVariants,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("name", product.Name),
		)
		return fmt.Errorf("create product %s: %w", product.Name, err)
	}

	for _, v := range product.Variants {
		_, err = tx.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, variant_type, value, sku, stock, price_adjustment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, v.ID, product.ID, v.VariantType, v.Value, v.SKU, v.Stock, v.PriceAdjustment, v.CreatedAt)
		if err != nil {
			r.log.Error("Failed to create product variant",
				zap.Error(err),
				zap.String("product_id", product.ID.String()),
				zap.String("sku", v.SKU),
			)
			return fmt.Errorf("create variant %s: %w", v.SKU, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	if product.HasVariants {
		variants, err := r.loadVariants(ctx, id)
		if err != nil {
			return nil, err
		}
		product.Variants = variants
	}

	return product, nil
}

func (r *productRepository) loadVariants(ctx context.Context, productID uuid.UUID) ([]*entity.ProductVariant, error) {
	query := `
		SELECT id, product_id, variant_type, value, sku, stock, price_adjustment, created_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		r.log.Error("Failed to load variants",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("load variants for %s: %w", productID.String(), err)
	}
	defer rows.Close()

	var variants []*entity.ProductVariant
	for rows.Next() {
		var v entity.ProductVariant
		err := rows.Scan(&v.ID, &v.ProductID, &v.VariantType, &v.Value, &v.SKU, &v.Stock, &v.PriceAdjustment, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan variant row: %w", err)
		}
		variants = append(variants, &v)
	}

	return variants, nil
}

func (r *productRepository) FindAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find products", zap.Error(err))
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) CountAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []any{}

	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET category_id = $2, name = $3, slug = $4, description = $5, price = $6,
		    compare_price = $7, stock = $8, low_stock_threshold = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.ComparePrice,
		product.Stock,
		product.LowStockThreshold,
		product.IsActive,
		product.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update product",
			zap.Error(err),
			zap.String("product_id", product.ID.String()),
		)
		return fmt.Errorf("update product %s: %w", product.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", product.ID.String())
	}

	return nil
}

// Deactivate soft-disables the product. Products are never physically deleted.
func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate product",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return fmt.Errorf("deactivate product %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id.String())
	}

	return nil
}

func (r *productRepository) ReserveStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error {
	var query string
	var args []any

	if variantID != nil {
		// stock >= quantity in the predicate is the oversell guard
		query = `
			UPDATE product_variants
			SET stock = stock - $3
			WHERE id = $2 AND product_id = $1 AND stock >= $3
		`
		args = []any{productID, *variantID, quantity}
	} else {
		query = `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND has_variants = false AND stock >= $2
		`
		args = []any{productID, quantity}
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to reserve stock",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.Int64("quantity", quantity),
		)
		return fmt.Errorf("reserve stock for %s: %w", productID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func (r *productRepository) ReleaseStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error {
	var query string
	var args []any

	if variantID != nil {
		query = `UPDATE product_variants SET stock = stock + $3 WHERE id = $2 AND product_id = $1`
		args = []any{productID, *variantID, quantity}
	} else {
		query = `UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`
		args = []any{productID, quantity}
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to release stock",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.Int64("quantity", quantity),
		)
		return fmt.Errorf("release stock for %s: %w", productID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", productID.String())
	}

	return nil
}
