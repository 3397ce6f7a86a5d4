package repository

import (
	"glam-commerce/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Category     CategoryRepository
	Product      ProductRepository
	SalonService SalonServiceRepository
	Order        OrderRepository
	Booking      BookingRepository
	Coupon       CouponRepository
	Transaction  TransactionRepository
	Cart         CartRepository
	Counter      CounterRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Category:     NewCategoryRepository(db, log),
		Product:      NewProductRepository(db, log),
		SalonService: NewSalonServiceRepository(db, log),
		Order:        NewOrderRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Coupon:       NewCouponRepository(db, log),
		Transaction:  NewTransactionRepository(db, log),
		Cart:         NewCartRepository(db, log),
		Counter:      NewCounterRepository(db, log),
	}
}
