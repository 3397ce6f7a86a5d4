package usecase

import (
	"context"
	"testing"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/pkg/gateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bridalService() *entity.SalonService {
	s := &entity.SalonService{
		Name:        "Bridal Glam",
		DurationMin: 60,
		Price:       800000,
		IsActive:    true,
	}
	s.ID = uuid.New()
	return s
}

func bookingServiceWith(bookings *fakeBookingRepo, services *fakeSalonServiceRepo, gw gateway.Client) (BookingService, *fakeNotifier) {
	repo := &repository.Repository{
		Booking:      bookings,
		SalonService: services,
		Counter:      &fakeCounterRepo{},
	}
	if gw == nil {
		gw = &fakeGateway{}
	}
	notifier := &fakeNotifier{}
	return NewBookingService(repo, gw, testConfig(), nil, notifier, zap.NewNop()), notifier
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestBookingAvailabilityExcludesOccupied(t *testing.T) {
	bookings := &fakeBookingRepo{
		occupiedSlots: func(ctx context.Context, date time.Time, location, artistType string) ([]string, error) {
			return []string{"10:00", "14:00"}, nil
		},
	}
	svc, _ := bookingServiceWith(bookings, &fakeSalonServiceRepo{}, nil)

	resp, err := svc.Availability(context.Background(), &request.AvailabilityRequest{
		Date:       futureDate(),
		Location:   "calabar",
		ArtistType: "senior",
	})
	require.NoError(t, err)

	// 08:00-18:00 gives ten hourly slots, two of them taken.
	assert.Len(t, resp.Available, 8)
	assert.Len(t, resp.Occupied, 2)
	for _, slot := range resp.Available {
		assert.NotEqual(t, "10:00", slot.Start)
		assert.NotEqual(t, "14:00", slot.Start)
	}
}

func TestBookingCreateSplitsDeposit(t *testing.T) {
	service := bridalService()
	var created *entity.Booking
	bookings := &fakeBookingRepo{
		create: func(ctx context.Context, booking *entity.Booking) error {
			created = booking
			return nil
		},
	}
	services := &fakeSalonServiceRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) { return service, nil },
	}
	svc, _ := bookingServiceWith(bookings, services, nil)

	resp, err := svc.Create(context.Background(), nil, "", &request.CreateBookingRequest{
		ServiceID:       service.ID.String(),
		ArtistType:      "senior",
		Location:        "calabar",
		AppointmentDate: futureDate(),
		SlotStart:       "10:00",
		Guest: &request.GuestInfoRequest{
			Name:  "Ada Obi",
			Email: "ada@example.com",
			Phone: "08030000000",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, int64(400000), resp.Deposit)
	assert.Equal(t, int64(400000), resp.Balance)
	assert.Equal(t, "11:00", resp.SlotEnd)
	assert.Equal(t, entity.BookingStatusPending, resp.Status)
	assert.Regexp(t, `^BKG-\d{8}-\d{4}$`, resp.BookingNumber)
}

func TestBookingCreateSlotTaken(t *testing.T) {
	service := bridalService()
	bookings := &fakeBookingRepo{
		create: func(ctx context.Context, booking *entity.Booking) error {
			return repository.ErrSlotTaken
		},
	}
	services := &fakeSalonServiceRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) { return service, nil },
	}
	svc, _ := bookingServiceWith(bookings, services, nil)

	_, err := svc.Create(context.Background(), nil, "", &request.CreateBookingRequest{
		ServiceID:       service.ID.String(),
		ArtistType:      "senior",
		Location:        "calabar",
		AppointmentDate: futureDate(),
		SlotStart:       "10:00",
		Guest:           &request.GuestInfoRequest{Name: "Ada", Email: "a@b.c", Phone: "080"},
	})
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestBookingCreateRejectsOutsideWindow(t *testing.T) {
	service := bridalService()
	services := &fakeSalonServiceRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) { return service, nil },
	}
	svc, _ := bookingServiceWith(&fakeBookingRepo{}, services, nil)

	for _, slot := range []string{"07:00", "18:00", "10:30"} {
		_, err := svc.Create(context.Background(), nil, "", &request.CreateBookingRequest{
			ServiceID:       service.ID.String(),
			ArtistType:      "senior",
			Location:        "calabar",
			AppointmentDate: futureDate(),
			SlotStart:       slot,
			Guest:           &request.GuestInfoRequest{Name: "Ada", Email: "a@b.c", Phone: "080"},
		})
		assert.ErrorIs(t, err, ErrValidation, "slot %s must be rejected", slot)
	}
}

func TestBookingCreateRejectsPastDate(t *testing.T) {
	service := bridalService()
	services := &fakeSalonServiceRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) { return service, nil },
	}
	svc, _ := bookingServiceWith(&fakeBookingRepo{}, services, nil)

	_, err := svc.Create(context.Background(), nil, "", &request.CreateBookingRequest{
		ServiceID:       service.ID.String(),
		ArtistType:      "senior",
		Location:        "calabar",
		AppointmentDate: time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		SlotStart:       "10:00",
		Guest:           &request.GuestInfoRequest{Name: "Ada", Email: "a@b.c", Phone: "080"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func ownedBooking(userID uuid.UUID, daysOut int) *entity.Booking {
	b := &entity.Booking{
		BookingNumber:   "BKG-20260830-0001",
		UserID:          &userID,
		Status:          entity.BookingStatusConfirmed,
		AppointmentDate: time.Now().AddDate(0, 0, daysOut),
		SlotStart:       "10:00",
		SlotEnd:         "11:00",
		Deposit:         400000,
	}
	b.ID = uuid.New()
	return b
}

func TestBookingCancelWithNotice(t *testing.T) {
	userID := uuid.New()
	booking := ownedBooking(userID, 7)

	cancelled := false
	bookings := &fakeBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return booking, nil },
		markCancelled: func(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error) {
			cancelled = true
			return true, nil
		},
	}
	svc, _ := bookingServiceWith(bookings, &fakeSalonServiceRepo{}, nil)

	require.NoError(t, svc.Cancel(context.Background(), &userID, false, booking.ID.String(), "moving"))
	assert.True(t, cancelled)
}

func TestBookingCancelTooLate(t *testing.T) {
	userID := uuid.New()
	booking := ownedBooking(userID, 0) // today

	bookings := &fakeBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return booking, nil },
	}
	svc, _ := bookingServiceWith(bookings, &fakeSalonServiceRepo{}, nil)

	err := svc.Cancel(context.Background(), &userID, false, booking.ID.String(), "")
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestBookingAdminCancelRefundsDeposit(t *testing.T) {
	userID := uuid.New()
	booking := ownedBooking(userID, 0) // inside the notice window, admin may still cancel
	booking.DepositPaid = true
	booking.DepositReference = "ref-dep-1"

	var gotRefundRef string
	bookings := &fakeBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return booking, nil },
		markCancelled: func(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error) {
			gotRefundRef = refundReference
			return true, nil
		},
	}

	refunded := false
	gw := &fakeGateway{
		refund: func(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
			refunded = true
			assert.Equal(t, "ref-dep-1", req.Reference)
			assert.Equal(t, int64(400000), req.Amount)
			return &gateway.RefundResult{RefundID: "rfn-1", Status: "processed"}, nil
		},
	}
	svc, _ := bookingServiceWith(bookings, &fakeSalonServiceRepo{}, gw)

	adminID := uuid.New()
	require.NoError(t, svc.Cancel(context.Background(), &adminID, true, booking.ID.String(), "artist unavailable"))
	assert.True(t, refunded)
	assert.Equal(t, "rfn-1", gotRefundRef)
}

func TestBookingCreateForAccountHolder(t *testing.T) {
	service := bridalService()
	var created *entity.Booking
	bookings := &fakeBookingRepo{
		create: func(ctx context.Context, booking *entity.Booking) error {
			created = booking
			return nil
		},
	}
	services := &fakeSalonServiceRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) { return service, nil },
	}
	svc, notifier := bookingServiceWith(bookings, services, nil)

	userID := uuid.New()
	_, err := svc.Create(context.Background(), &userID, "ada@example.com", &request.CreateBookingRequest{
		ServiceID:       service.ID.String(),
		ArtistType:      "senior",
		Location:        "calabar",
		AppointmentDate: futureDate(),
		SlotStart:       "10:00",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// The account email backs deposit reminders and confirmations.
	assert.Equal(t, "ada@example.com", created.CustomerEmail)
	require.Len(t, notifier.recipients, 1)
	assert.Equal(t, "ada@example.com", notifier.recipients[0])

	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}
