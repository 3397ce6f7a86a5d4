package adaptor

import (
	"errors"
	"net/http"

	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/usecase"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Category *CategoryHandler
	Product  *ProductHandler
	Coupon   *CouponHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
}

func NewHandler(service *usecase.Service, gw gateway.Client, log *zap.Logger) *Handler {
	return &Handler{
		Category: NewCategoryHandler(service.Category, log),
		Product:  NewProductHandler(service.Product, log),
		Coupon:   NewCouponHandler(service.Coupon, log),
		Cart:     NewCartHandler(service.Cart, log),
		Order:    NewOrderHandler(service.Order, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, gw, log),
	}
}

// respondServiceError maps service errors to HTTP statuses. Services wrap
// the usecase sentinels with %w, so errors.Is sees through the chain.
func respondServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrCouponInvalid):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotEligible),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrSlotTaken):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrGateway):
		log.Error(operation+" failed - gateway", zap.Error(err))
		utils.ResponseBadGateway(w, "payment gateway unavailable")

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "something went wrong")
	}
}

// paginationFromQuery reads page/per_page query params with sane defaults.
func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
