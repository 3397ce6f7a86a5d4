package repository

import (
	"context"
	"fmt"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)
	Upsert(ctx context.Context, item *entity.CartItem) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, variant_id, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find cart items",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart items for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.VariantID, &item.Quantity, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *cartRepository) Upsert(ctx context.Context, item *entity.CartItem) error {
	// variant_id uses a sentinel nil UUID in the unique key so products with
	// and without variants both dedupe correctly.
	query := `
		INSERT INTO cart_items (id, user_id, product_id, variant_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id, COALESCE(variant_id, '00000000-0000-0000-0000-000000000000'))
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.db.Exec(ctx, query, item.ID, item.UserID, item.ProductID, item.VariantID, item.Quantity, item.CreatedAt)
	if err != nil {
		r.log.Error("Failed to upsert cart item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("product_id", item.ProductID.String()),
		)
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		r.log.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return fmt.Errorf("remove cart item %s: %w", itemID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart item %s not found", itemID.String())
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Error("Failed to clear cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("clear cart for %s: %w", userID.String(), err)
	}

	return nil
}
