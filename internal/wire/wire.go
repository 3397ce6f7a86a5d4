// internal/wire/wire.go
package wire

import (
	"net/http"

	"glam-commerce/internal/adaptor"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/usecase"
	"glam-commerce/pkg/cache"
	"glam-commerce/pkg/events"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/mailer"
	"glam-commerce/pkg/middleware"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	c *cache.Cache,
	publisher *events.Publisher,
	logger *zap.Logger,
) *App {
	gw := gateway.NewPaystackClient(config.Paystack, logger)
	notifier := mailer.NewSMTPNotifier(config.Email, logger)

	service := usecase.NewService(repo, config, gw, c, publisher, notifier, logger)
	handler := adaptor.NewHandler(service, gw, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(20, 40))

	wireCatalog(r, handler, config, logger)
	wireCart(r, handler, config, logger)
	wireOrder(r, handler, config, logger)
	wireBooking(r, handler, config, logger)
	wirePayment(r, handler, config, logger)
	wireCoupon(r, handler, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
