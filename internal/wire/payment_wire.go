package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// Public: initialization is reachable from guest checkout, verify is the
	// post-checkout redirect, and the webhook authenticates itself with its
	// HMAC signature.
	r.Post("/api/payment/initialize", handler.Payment.Initialize)
	r.Get("/api/payment/verify/{reference}", handler.Payment.Verify)
	r.Post("/api/payment/webhook", handler.Payment.Webhook)

	// PUT /api/payment/confirm-bank-transfer/{orderId} - manual offline
	// confirmation, admin only
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		r.Put("/api/payment/confirm-bank-transfer/{orderId}", handler.Payment.ConfirmTransfer)
	})
}
