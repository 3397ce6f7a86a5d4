package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create inserts the booking. The partial unique index on
	// (appointment_date, location, artist_type, slot_start) over active
	// statuses is the authoritative double-booking guard; a violation maps
	// to ErrSlotTaken.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, status *entity.BookingStatus) (int64, error)

	// OccupiedSlots returns slot_start values held by active bookings for
	// the given (date, location, artistType).
	OccupiedSlots(ctx context.Context, date time.Time, location, artistType string) ([]string, error)

	MarkDepositPaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	MarkBalancePaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_number, user_id, customer_name, customer_email, customer_phone,
	service_id, service_name, service_description, service_duration,
	artist_type, artist_name, location, appointment_date, slot_start, slot_end,
	service_price, deposit, balance,
	deposit_paid, deposit_reference, deposit_paid_at,
	balance_paid, balance_reference, balance_paid_at,
	status, cancelled_at, cancelled_by, cancellation_reason, refund_reference,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.UserID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.ServiceID,
		&b.ServiceName,
		&b.ServiceDescription,
		&b.ServiceDuration,
		&b.ArtistType,
		&b.ArtistName,
		&b.Location,
		&b.AppointmentDate,
		&b.SlotStart,
		&b.SlotEnd,
		&b.ServicePrice,
		&b.Deposit,
		&b.Balance,
		&b.DepositPaid,
		&b.DepositReference,
		&b.DepositPaidAt,
		&b.BalancePaid,
		&b.BalanceReference,
		&b.BalancePaidAt,
		&b.Status,
		&b.CancelledAt,
		&b.CancelledBy,
		&b.CancellationReason,
		&b.RefundReference,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_number, user_id, customer_name, customer_email, customer_phone,
			service_id, service_name, service_description, service_duration,
			artist_type, artist_name, location, appointment_date, slot_start, slot_end,
			service_price, deposit, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingNumber,
		booking.UserID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.ServiceID,
		booking.ServiceName,
		booking.ServiceDescription,
		booking.ServiceDuration,
		booking.ArtistType,
		booking.ArtistName,
		booking.Location,
		booking.AppointmentDate,
		booking.SlotStart,
		booking.SlotEnd,
		booking.ServicePrice,
		booking.Deposit,
		booking.Balance,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_number", booking.BookingNumber),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingNumber, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
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
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context, status *entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1"
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (r *bookingRepository) OccupiedSlots(ctx context.Context, date time.Time, location, artistType string) ([]string, error) {
	query := `
		SELECT slot_start
		FROM bookings
		WHERE appointment_date = $1 AND location = $2 AND artist_type = $3
		  AND status = ANY($4)
		ORDER BY slot_start
	`

	statuses := make([]string, len(entity.ActiveBookingStatuses))
	for i, s := range entity.ActiveBookingStatuses {
		statuses[i] = string(s)
	}

	rows, err := r.db.Query(ctx, query, date, location, artistType, statuses)
	if err != nil {
		r.log.Error("Failed to find occupied slots",
			zap.Error(err),
			zap.Time("date", date),
			zap.String("location", location),
			zap.String("artist_type", artistType),
		)
		return nil, fmt.Errorf("find occupied slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// MarkDepositPaid sets the deposit leg and promotes a pending booking to
// confirmed. The deposit_paid = false predicate makes redelivery a no-op.
func (r *bookingRepository) MarkDepositPaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET deposit_paid = true, deposit_reference = $2, deposit_paid_at = $3,
		    status = CASE WHEN status = 'pending' THEN 'confirmed' ELSE status END,
		    updated_at = $3
		WHERE id = $1 AND deposit_paid = false AND status <> 'cancelled'
	`

	result, err := r.db.Exec(ctx, query, bookingID, reference, paidAt)
	if err != nil {
		r.log.Error("Failed to mark deposit paid",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("mark deposit paid for %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) MarkBalancePaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET balance_paid = true, balance_reference = $2, balance_paid_at = $3, updated_at = $3
		WHERE id = $1 AND balance_paid = false AND status <> 'cancelled'
	`

	result, err := r.db.Exec(ctx, query, bookingID, reference, paidAt)
	if err != nil {
		r.log.Error("Failed to mark balance paid",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("mark balance paid for %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error) {
	statuses := make([]string, len(entity.ActiveBookingStatuses))
	for i, s := range entity.ActiveBookingStatuses {
		statuses[i] = string(s)
	}

	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW(), cancelled_by = $2,
		    cancellation_reason = $3, refund_reference = $4, updated_at = NOW()
		WHERE id = $1 AND status = ANY($5)
	`

	result, err := r.db.Exec(ctx, query, bookingID, actorID, reason, refundReference, statuses)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}
