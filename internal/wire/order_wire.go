package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// ==================== PUBLIC / OPTIONAL-AUTH ROUTES ====================
	// Checkout accepts guests; when a token is present the order is tied to
	// the user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(config.JWT.Secret, log))

		// POST /api/orders - place an order (guest or authenticated)
		r.Post("/api/orders", handler.Order.Create)
	})

	// GET /api/orders/track/{orderNumber} - guest order tracking
	r.Get("/api/orders/track/{orderNumber}", handler.Order.Track)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// GET /api/orders - the caller's order history
		r.Get("/api/orders", handler.Order.GetUserOrders)

		// GET /api/orders/{id} - order detail (owner or admin)
		r.Get("/api/orders/{id}", handler.Order.GetByID)

		// PUT /api/orders/{id}/cancel - cancel (owner or admin)
		r.Put("/api/orders/{id}/cancel", handler.Order.Cancel)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// GET /api/orders/admin/all - list all orders, filterable by status
		r.Get("/api/orders/admin/all", handler.Order.List)

		// PUT /api/orders/{id}/status - advance fulfilment status
		r.Put("/api/orders/{id}/status", handler.Order.UpdateStatus)
	})
}
