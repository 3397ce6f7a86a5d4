package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services - the salon service catalog
	r.Get("/api/services", handler.Booking.GetServices)

	// GET /api/bookings/availability - free slots for a date/location/tier
	r.Get("/api/bookings/availability", handler.Booking.Availability)

	// POST /api/bookings - book a slot (guest or authenticated)
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(config.JWT.Secret, log))
		r.Post("/api/bookings", handler.Booking.Create)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// GET /api/bookings - the caller's bookings
		r.Get("/api/bookings", handler.Booking.GetUserBookings)

		// GET /api/bookings/{id} - booking detail (owner or admin)
		r.Get("/api/bookings/{id}", handler.Booking.GetByID)

		// PUT /api/bookings/{id}/cancel - cancel (owner >=24h out, or admin)
		r.Put("/api/bookings/{id}/cancel", handler.Booking.Cancel)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// GET /api/bookings/admin/all - list all bookings, filterable by status
		r.Get("/api/bookings/admin/all", handler.Booking.List)

		// PUT /api/bookings/{id}/status - in_progress/completed/no_show
		r.Put("/api/bookings/{id}/status", handler.Booking.UpdateStatus)
	})
}
