package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// ActiveBookingStatuses are the states that hold a slot. The slot-exclusivity
// invariant only counts these.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// Booking amounts are kobo. Deposit is 50% of ServicePrice, Balance the
// remainder; the two legs are paid and tracked independently.
type Booking struct {
	BaseNoDelete
	BookingNumber string     `db:"booking_number"`
	UserID        *uuid.UUID `db:"user_id"`

	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	CustomerPhone string `db:"customer_phone"`

	ServiceID uuid.UUID `db:"service_id"`
	// Frozen snapshot of the service at booking time.
	ServiceName        string `db:"service_name"`
	ServiceDescription string `db:"service_description"`
	ServiceDuration    int    `db:"service_duration"`

	ArtistType string `db:"artist_type"`
	ArtistName string `db:"artist_name"`
	Location   string `db:"location"`

	AppointmentDate time.Time `db:"appointment_date"` // date only, midnight UTC
	SlotStart       string    `db:"slot_start"`       // "10:00"
	SlotEnd         string    `db:"slot_end"`         // "11:00"

	ServicePrice int64 `db:"service_price"`
	Deposit      int64 `db:"deposit"`
	Balance      int64 `db:"balance"`

	DepositPaid      bool       `db:"deposit_paid"`
	DepositReference string     `db:"deposit_reference"`
	DepositPaidAt    *time.Time `db:"deposit_paid_at"`
	BalancePaid      bool       `db:"balance_paid"`
	BalanceReference string     `db:"balance_reference"`
	BalancePaidAt    *time.Time `db:"balance_paid_at"`

	Status BookingStatus `db:"status"`

	CancelledAt        *time.Time `db:"cancelled_at"`
	CancelledBy        *uuid.UUID `db:"cancelled_by"`
	CancellationReason string     `db:"cancellation_reason"`
	RefundReference    string     `db:"refund_reference"`
}

// AppointmentAt combines the date and slot start into a point in time.
func (b *Booking) AppointmentAt() time.Time {
	t, err := time.Parse("15:04", b.SlotStart)
	if err != nil {
		return b.AppointmentDate
	}
	return time.Date(
		b.AppointmentDate.Year(), b.AppointmentDate.Month(), b.AppointmentDate.Day(),
		t.Hour(), t.Minute(), 0, 0, b.AppointmentDate.Location(),
	)
}
