package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/dto/response"
	"glam-commerce/pkg/events"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/mailer"
	"glam-commerce/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Customers may self-cancel up to this long before the appointment.
const cancellationNotice = 24 * time.Hour

type BookingService interface {
	GetServices(ctx context.Context) ([]response.SalonServiceResponse, error)

	// Availability lists the free and taken hourly slots for a date,
	// location and artist tier.
	Availability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)

	// Create claims the slot. The database unique index is the authority on
	// exclusivity; a lost race surfaces as ErrSlotTaken.
	Create(ctx context.Context, userID *uuid.UUID, userEmail string, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	GetByID(ctx context.Context, userID *uuid.UUID, isAdmin bool, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Cancel frees the slot. Customers need cancellationNotice of lead
	// time; admins do not. An admin cancelling a deposit-paid booking
	// triggers a gateway refund of the deposit.
	Cancel(ctx context.Context, userID *uuid.UUID, isAdmin bool, bookingID, reason string) error

	// Admin.
	List(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, bookingID, status string) error
}

type bookingService struct {
	repo      *repository.Repository
	gateway   gateway.Client
	config    *utils.Config
	publisher *events.Publisher
	notifier  mailer.Notifier
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	gw gateway.Client,
	config *utils.Config,
	publisher *events.Publisher,
	notifier mailer.Notifier,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		gateway:   gw,
		config:    config,
		publisher: publisher,
		notifier:  notifier,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetServices(ctx context.Context) ([]response.SalonServiceResponse, error) {
	services, err := s.repo.SalonService.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	items := make([]response.SalonServiceResponse, len(services))
	for i, svc := range services {
		items[i] = response.SalonServiceToResponse(svc)
	}
	return items, nil
}

// allSlots enumerates the hourly slots in the operating window.
func (s *bookingService) allSlots() []response.SlotResponse {
	var slots []response.SlotResponse
	for h := s.config.Booking.OpenHour; h < s.config.Booking.CloseHour; h++ {
		slots = append(slots, response.SlotResponse{
			Start: fmt.Sprintf("%02d:00", h),
			End:   fmt.Sprintf("%02d:00", h+1),
		})
	}
	return slots
}

func (s *bookingService) validLocation(location string) bool {
	for _, l := range s.config.Booking.Locations {
		if l == location {
			return true
		}
	}
	return false
}

func (s *bookingService) Availability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("date %s: %w", req.Date, ErrValidation)
	}
	if !s.validLocation(req.Location) {
		return nil, fmt.Errorf("location %s: %w", req.Location, ErrValidation)
	}

	occupied, err := s.repo.Booking.OccupiedSlots(ctx, date, req.Location, req.ArtistType)
	if err != nil {
		return nil, fmt.Errorf("load occupied slots: %w", err)
	}

	taken := make(map[string]bool, len(occupied))
	for _, slot := range occupied {
		taken[slot] = true
	}

	resp := &response.AvailabilityResponse{
		Date:       req.Date,
		Location:   req.Location,
		ArtistType: req.ArtistType,
		Available:  []response.SlotResponse{},
		Occupied:   []response.SlotResponse{},
	}
	for _, slot := range s.allSlots() {
		if taken[slot.Start] {
			resp.Occupied = append(resp.Occupied, slot)
		} else {
			resp.Available = append(resp.Available, slot)
		}
	}
	return resp, nil
}

func (s *bookingService) Create(ctx context.Context, userID *uuid.UUID, userEmail string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if userID == nil && req.Guest == nil {
		return nil, fmt.Errorf("guest booking requires contact details: %w", ErrValidation)
	}
	if !s.validLocation(req.Location) {
		return nil, fmt.Errorf("location %s: %w", req.Location, ErrValidation)
	}

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("appointment date %s: %w", req.AppointmentDate, ErrValidation)
	}

	slotTime, err := time.Parse("15:04", req.SlotStart)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", req.SlotStart, ErrValidation)
	}
	hour := slotTime.Hour()
	if slotTime.Minute() != 0 || hour < s.config.Booking.OpenHour || hour >= s.config.Booking.CloseHour {
		return nil, fmt.Errorf("slot %s is outside the booking window: %w", req.SlotStart, ErrValidation)
	}

	appointment := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
	if !appointment.After(time.Now()) {
		return nil, fmt.Errorf("appointment %s is in the past: %w", appointment.Format(time.RFC3339), ErrValidation)
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("service ID %s: %w", req.ServiceID, ErrValidation)
	}
	service, err := s.repo.SalonService.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("find service %s: %w", req.ServiceID, err)
	}
	if service == nil || !service.IsActive {
		return nil, fmt.Errorf("service %s: %w", req.ServiceID, ErrNotFound)
	}

	now := time.Now()
	seq, err := s.repo.Counter.Next(ctx, "booking:"+now.Format("20060102"))
	if err != nil {
		return nil, fmt.Errorf("next booking sequence: %w", err)
	}

	deposit := service.Price / 2

	booking := &entity.Booking{
		BookingNumber:      utils.FormatBookingNumber(now, seq),
		UserID:             userID,
		ServiceID:          service.ID,
		ServiceName:        service.Name,
		ServiceDescription: service.Description,
		ServiceDuration:    service.DurationMin,
		ArtistType:         req.ArtistType,
		Location:           req.Location,
		AppointmentDate:    date,
		SlotStart:          fmt.Sprintf("%02d:00", hour),
		SlotEnd:            fmt.Sprintf("%02d:00", hour+1),
		ServicePrice:       service.Price,
		Deposit:            deposit,
		Balance:            service.Price - deposit,
		Status:             entity.BookingStatusPending,
	}
	booking.Stamp(now)

	if req.Guest != nil && userID == nil {
		booking.CustomerName = req.Guest.Name
		booking.CustomerEmail = req.Guest.Email
		booking.CustomerPhone = req.Guest.Phone
	} else {
		booking.CustomerEmail = userEmail
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, fmt.Errorf("slot %s on %s: %w", booking.SlotStart, req.AppointmentDate, err)
		}
		return nil, fmt.Errorf("create booking %s: %w", booking.BookingNumber, err)
	}

	if booking.CustomerEmail != "" {
		s.notifier.Send(booking.CustomerEmail, "Booking received "+booking.BookingNumber,
			fmt.Sprintf("Your %s appointment on %s at %s is held. Pay the NGN %.2f deposit to confirm it.",
				booking.ServiceName, booking.AppointmentDate.Format("Monday, 2 January 2006"),
				booking.SlotStart, float64(booking.Deposit)/100))
	}

	s.log.Info("Booking created",
		zap.String("booking_number", booking.BookingNumber),
		zap.String("slot", booking.SlotStart),
		zap.String("location", booking.Location))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetByID(ctx context.Context, userID *uuid.UUID, isAdmin bool, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		if userID == nil || booking.UserID == nil || *booking.UserID != *userID {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrForbidden)
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b)
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) Cancel(ctx context.Context, userID *uuid.UUID, isAdmin bool, bookingID, reason string) error {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if !isAdmin {
		if userID == nil || booking.UserID == nil || *booking.UserID != *userID {
			return fmt.Errorf("booking %s: %w", bookingID, ErrForbidden)
		}
		if time.Until(booking.AppointmentAt()) < cancellationNotice {
			return fmt.Errorf("booking %s is within 24 hours of the appointment: %w", booking.BookingNumber, ErrNotEligible)
		}
	}

	refundReference := ""
	if isAdmin && booking.DepositPaid && booking.DepositReference != "" {
		refund, err := s.gateway.Refund(ctx, gateway.RefundRequest{
			Reference: booking.DepositReference,
			Amount:    booking.Deposit,
			Reason:    reason,
		})
		if err != nil {
			// Cancel anyway; the refund is retried out of band.
			s.log.Error("Deposit refund failed",
				zap.String("booking_number", booking.BookingNumber),
				zap.String("deposit_reference", booking.DepositReference),
				zap.Error(err))
		} else {
			refundReference = refund.RefundID
		}
	}

	applied, err := s.repo.Booking.MarkCancelled(ctx, booking.ID, userID, reason, refundReference)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	if !applied {
		return fmt.Errorf("booking %s is not cancellable from %s: %w", booking.BookingNumber, booking.Status, ErrNotEligible)
	}

	s.publisher.Publish(ctx, events.Event{
		Type:     events.BookingCancelled,
		EntityID: booking.ID.String(),
		Number:   booking.BookingNumber,
		Payload:  map[string]any{"reason": reason, "refund_reference": refundReference},
	})

	if booking.CustomerEmail != "" {
		s.notifier.Send(booking.CustomerEmail, "Booking cancelled "+booking.BookingNumber,
			"Your appointment on "+booking.AppointmentDate.Format("Monday, 2 January 2006")+" has been cancelled.")
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_number", booking.BookingNumber),
		zap.Bool("by_admin", isAdmin),
		zap.String("refund_reference", refundReference))
	return nil
}

func (s *bookingService) List(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var filter *entity.BookingStatus
	if status != "" {
		st := entity.BookingStatus(status)
		filter = &st
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b)
	}
	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, status string) error {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	target := entity.BookingStatus(status)
	switch target {
	case entity.BookingStatusInProgress, entity.BookingStatusCompleted, entity.BookingStatusNoShow:
	default:
		return fmt.Errorf("status %s: %w", status, ErrValidation)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, target); err != nil {
		return fmt.Errorf("update booking %s status: %w", bookingID, err)
	}
	return nil
}

func (s *bookingService) loadBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking ID %s: %w", bookingID, ErrValidation)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}
