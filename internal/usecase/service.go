package usecase

import (
	"glam-commerce/internal/data/repository"
	"glam-commerce/pkg/cache"
	"glam-commerce/pkg/events"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/mailer"
	"glam-commerce/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Category CategoryService
	Product  ProductService
	Coupon   CouponService
	Cart     CartService
	Order    OrderService
	Booking  BookingService
	Payment  PaymentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	gw gateway.Client,
	c *cache.Cache,
	publisher *events.Publisher,
	notifier mailer.Notifier,
	log *zap.Logger,
) *Service {
	coupon := NewCouponService(repo, log)

	return &Service{
		Category: NewCategoryService(repo, c, log),
		Product:  NewProductService(repo, c, log),
		Coupon:   coupon,
		Cart:     NewCartService(repo, log),
		Order:    NewOrderService(repo, coupon, config, c, publisher, notifier, log),
		Booking:  NewBookingService(repo, gw, config, publisher, notifier, log),
		Payment:  NewPaymentService(repo, gw, publisher, notifier, log),
	}
}
