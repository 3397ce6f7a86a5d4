package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// Carts belong to authenticated users; guests carry items client-side.
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		r.Get("/", handler.Cart.Get)
		r.Delete("/", handler.Cart.Clear)
		r.Post("/items", handler.Cart.Add)
		r.Delete("/items/{id}", handler.Cart.Remove)
	})
}
