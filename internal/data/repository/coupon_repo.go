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

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	// RecordUsage appends the usage row and bumps used_count in one
	// transaction, called only after the order is durably created.
	RecordUsage(ctx context.Context, usage *entity.CouponUsage) error
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

const couponColumns = `id, code, discount_type, discount_value, min_order_amount, max_discount,
	start_date, end_date, usage_limit, per_user_limit, used_count, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxDiscount,
		&c.StartDate,
		&c.EndDate,
		&c.UsageLimit,
		&c.PerUserLimit,
		&c.UsedCount,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, discount_type, discount_value, min_order_amount, max_discount,
			start_date, end_date, usage_limit, per_user_limit, used_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinOrderAmount,
		coupon.MaxDiscount,
		coupon.StartDate,
		coupon.EndDate,
		coupon.UsageLimit,
		coupon.PerUserLimit,
		coupon.UsedCount,
		coupon.IsActive,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create coupon",
			zap.Error(err),
			zap.String("code", coupon.Code),
		)
		return fmt.Errorf("create coupon %s: %w", coupon.Code, err)
	}

	return nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon by code %s: %w", code, err)
	}

	return coupon, nil
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by ID",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return nil, fmt.Errorf("find coupon by ID %s: %w", id.String(), err)
	}

	return coupon, nil
}

func (r *couponRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find coupons", zap.Error(err))
		return nil, fmt.Errorf("find coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*entity.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, coupon)
	}

	return coupons, nil
}

func (r *couponRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&count); err != nil {
		r.log.Error("Failed to count coupons", zap.Error(err))
		return 0, fmt.Errorf("count coupons: %w", err)
	}

	return count, nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		UPDATE coupons
		SET discount_type = $2, discount_value = $3, min_order_amount = $4, max_discount = $5,
		    start_date = $6, end_date = $7, usage_limit = $8, per_user_limit = $9,
		    is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinOrderAmount,
		coupon.MaxDiscount,
		coupon.StartDate,
		coupon.EndDate,
		coupon.UsageLimit,
		coupon.PerUserLimit,
		coupon.IsActive,
		coupon.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update coupon",
			zap.Error(err),
			zap.String("coupon_id", coupon.ID.String()),
		)
		return fmt.Errorf("update coupon %s: %w", coupon.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", coupon.ID.String())
	}

	return nil
}

func (r *couponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE coupons SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate coupon",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("deactivate coupon %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", id.String())
	}

	return nil
}

func (r *couponRepository) CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, couponID, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count coupon usage",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count coupon usage for %s: %w", couponID.String(), err)
	}

	return count, nil
}

func (r *couponRepository) RecordUsage(ctx context.Context, usage *entity.CouponUsage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record coupon usage: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO coupon_usages (id, coupon_id, user_id, order_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, usage.ID, usage.CouponID, usage.UserID, usage.OrderNumber, usage.CreatedAt)
	if err != nil {
		r.log.Error("Failed to record coupon usage",
			zap.Error(err),
			zap.String("coupon_id", usage.CouponID.String()),
			zap.String("order_number", usage.OrderNumber),
		)
		return fmt.Errorf("record coupon usage for %s: %w", usage.OrderNumber, err)
	}

	_, err = tx.Exec(ctx, `UPDATE coupons SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1`, usage.CouponID)
	if err != nil {
		return fmt.Errorf("increment coupon used count: %w", err)
	}

	return tx.Commit(ctx)
}
