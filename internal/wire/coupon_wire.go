package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCoupon(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// POST /api/coupons/validate - public pre-checkout check; auth is
	// optional but makes per-user limits bite.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(config.JWT.Secret, log))
		r.Post("/api/coupons/validate", handler.Coupon.Validate)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/coupons", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		r.Get("/", handler.Coupon.List)
		r.Post("/", handler.Coupon.Create)
		r.Put("/{id}", handler.Coupon.Update)
		r.Delete("/{id}", handler.Coupon.Delete)
	})
}
