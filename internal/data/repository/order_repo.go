package repository

import (
	"context"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	// Create persists the order, its line items and the initial history row
	// in one transaction so a durable order is never missing its items.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
	CountAll(ctx context.Context, status *entity.OrderStatus) (int64, error)
	LoadItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error)
	LoadHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error)
	AppendHistory(ctx context.Context, h *entity.OrderStatusHistory) error

	// Conditional transitions. Each returns whether a row actually changed;
	// false means the guard predicate did not hold (already applied, or the
	// order is in an ineligible state).
	MarkPaid(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus) (bool, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `id, order_number, user_id, guest_name, guest_email, guest_phone,
	shipping_address, delivery_zone, subtotal, shipping_cost, discount, total, coupon_id,
	status, payment_method, payment_status, payment_reference, paid_at,
	cancelled_at, cancelled_by, cancellation_note, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.GuestName,
		&o.GuestEmail,
		&o.GuestPhone,
		&o.ShippingAddress,
		&o.DeliveryZone,
		&o.Subtotal,
		&o.ShippingCost,
		&o.Discount,
		&o.Total,
		&o.CouponID,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.PaymentReference,
		&o.PaidAt,
		&o.CancelledAt,
		&o.CancelledBy,
		&o.CancellationNote,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, order_number, user_id, guest_name, guest_email, guest_phone,
			shipping_address, delivery_zone, subtotal, shipping_cost, discount, total, coupon_id,
			status, payment_method, payment_status, payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.GuestName,
		order.GuestEmail,
		order.GuestPhone,
		order.ShippingAddress,
		order.DeliveryZone,
		order.Subtotal,
		order.ShippingCost,
		order.Discount,
		order.Total,
		order.CouponID,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.PaymentReference,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_number", order.OrderNumber),
		)
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, variant_id, product_name,
				variant_label, unit_price, quantity, subtotal, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, item.ID, order.ID, item.ProductID, item.VariantID, item.ProductName,
			item.VariantLabel, item.UnitPrice, item.Quantity, item.Subtotal, item.CreatedAt)
		if err != nil {
			r.log.Error("Failed to create order item",
				zap.Error(err),
				zap.String("order_number", order.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
			)
			return fmt.Errorf("create order item for %s: %w", order.OrderNumber, err)
		}
	}

	for _, h := range order.History {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_history (id, order_id, status, note, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, h.ID, order.ID, h.Status, h.Note, h.ActorID, h.CreatedAt)
		if err != nil {
			return fmt.Errorf("create order history for %s: %w", order.OrderNumber, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order by ID %s: %w", id.String(), err)
	}

	items, err := r.LoadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by number",
			zap.Error(err),
			zap.String("order_number", orderNumber),
		)
		return nil, fmt.Errorf("find order by number %s: %w", orderNumber, err)
	}

	return order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find orders by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find orders by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count orders by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count orders by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *orderRepository) FindAll(ctx context.Context, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find orders", zap.Error(err))
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) CountAll(ctx context.Context, status *entity.OrderStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM orders`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1"
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count orders", zap.Error(err))
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepository) LoadItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, variant_id, product_name, variant_label,
			unit_price, quantity, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to load order items",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("load items for order %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.VariantID,
			&item.ProductName,
			&item.VariantLabel,
			&item.UnitPrice,
			&item.Quantity,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *orderRepository) LoadHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, status, note, actor_id, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to load order history",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("load history for order %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var history []*entity.OrderStatusHistory
	for rows.Next() {
		var h entity.OrderStatusHistory
		err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Note, &h.ActorID, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order history row: %w", err)
		}
		history = append(history, &h)
	}

	return history, nil
}

func (r *orderRepository) AppendHistory(ctx context.Context, h *entity.OrderStatusHistory) error {
	query := `
		INSERT INTO order_status_history (id, order_id, status, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, h.ID, h.OrderID, h.Status, h.Note, h.ActorID, h.CreatedAt)
	if err != nil {
		r.log.Error("Failed to append order history",
			zap.Error(err),
			zap.String("order_id", h.OrderID.String()),
		)
		return fmt.Errorf("append history for order %s: %w", h.OrderID.String(), err)
	}

	return nil
}

// MarkPaid flips payment state and advances the order to processing in one
// conditional update. The payment_status <> 'paid' predicate is what makes
// webhook redelivery a no-op.
func (r *orderRepository) MarkPaid(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = 'paid', status = 'processing', payment_reference = $2,
		    paid_at = $3, updated_at = $3
		WHERE id = $1 AND payment_status <> 'paid' AND status <> 'cancelled'
	`

	result, err := r.db.Exec(ctx, query, orderID, reference, paidAt)
	if err != nil {
		r.log.Error("Failed to mark order paid",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
			zap.String("reference", reference),
		)
		return false, fmt.Errorf("mark order %s paid: %w", orderID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkCancelled flips the order to cancelled only from an eligible status.
// The caller releases stock only when this reports true, so a reservation is
// never released twice.
func (r *orderRepository) MarkCancelled(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error) {
	statuses := make([]string, len(eligible))
	for i, s := range eligible {
		statuses[i] = string(s)
	}

	query := `
		UPDATE orders
		SET status = 'cancelled', cancelled_at = NOW(), cancelled_by = $2,
		    cancellation_note = $3, updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
	`

	result, err := r.db.Exec(ctx, query, orderID, actorID, note, statuses)
	if err != nil {
		r.log.Error("Failed to cancel order",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return false, fmt.Errorf("cancel order %s: %w", orderID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus) (bool, error) {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`

	result, err := r.db.Exec(ctx, query, orderID, to, statuses)
	if err != nil {
		r.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
			zap.String("status", string(to)),
		)
		return false, fmt.Errorf("update order %s status to %s: %w", orderID.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}
