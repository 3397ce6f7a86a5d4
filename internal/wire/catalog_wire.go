package wire

import (
	"glam-commerce/internal/adaptor"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(r chi.Router, handler *adaptor.Handler, config *utils.Config, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/categories", handler.Category.List)
	r.Get("/api/categories/{slug}", handler.Category.GetBySlug)
	r.Get("/api/products", handler.Product.List)
	r.Get("/api/products/{id}", handler.Product.GetByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		r.Post("/", handler.Category.Create)
		r.Put("/{id}", handler.Category.Update)
		r.Delete("/{id}", handler.Category.Delete)
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		r.Post("/", handler.Product.Create)
		r.Put("/{id}", handler.Product.Update)
		r.Delete("/{id}", handler.Product.Delete)
	})
}
