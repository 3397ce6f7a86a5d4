package response

import (
	"time"

	"glam-commerce/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	BookingNumber   string               `json:"booking_number"`
	UserID          string               `json:"user_id,omitempty"`
	CustomerName    string               `json:"customer_name"`
	ServiceName     string               `json:"service_name"`
	ServiceDuration int                  `json:"service_duration_min"`
	ArtistType      string               `json:"artist_type"`
	Location        string               `json:"location"`
	AppointmentDate string               `json:"appointment_date"`
	SlotStart       string               `json:"slot_start"`
	SlotEnd         string               `json:"slot_end"`
	ServicePrice    int64                `json:"service_price"`
	Deposit         int64                `json:"deposit"`
	Balance         int64                `json:"balance"`
	DepositPaid     bool                 `json:"deposit_paid"`
	BalancePaid     bool                 `json:"balance_paid"`
	Status          entity.BookingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	Date       string         `json:"date"`
	Location   string         `json:"location"`
	ArtistType string         `json:"artist_type"`
	Available  []SlotResponse `json:"available"`
	Occupied   []SlotResponse `json:"occupied"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	userID := ""
	if booking.UserID != nil {
		userID = booking.UserID.String()
	}

	return BookingResponse{
		ID:              booking.ID.String(),
		BookingNumber:   booking.BookingNumber,
		UserID:          userID,
		CustomerName:    booking.CustomerName,
		ServiceName:     booking.ServiceName,
		ServiceDuration: booking.ServiceDuration,
		ArtistType:      booking.ArtistType,
		Location:        booking.Location,
		AppointmentDate: booking.AppointmentDate.Format("2006-01-02"),
		SlotStart:       booking.SlotStart,
		SlotEnd:         booking.SlotEnd,
		ServicePrice:    booking.ServicePrice,
		Deposit:         booking.Deposit,
		Balance:         booking.Balance,
		DepositPaid:     booking.DepositPaid,
		BalancePaid:     booking.BalancePaid,
		Status:          booking.Status,
		CreatedAt:       booking.CreatedAt,
	}
}
