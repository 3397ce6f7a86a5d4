package adaptor

import (
	"encoding/json"
	"net/http"

	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/usecase"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// Create handles POST /api/orders. Works for both authenticated users and
// guests; guests must send contact details.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}
	email, _ := utils.GetEmailFromContext(r.Context())

	order, err := h.service.Create(r.Context(), userID, email, &req)
	if err != nil {
		respondServiceError(w, h.log, err, "create order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// GetByID handles GET /api/orders/{id} (protected).
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	order, err := h.service.GetByID(r.Context(), &userID, utils.IsAdmin(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err, "get order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}

// Track handles GET /api/orders/track/{orderNumber}?email= (public, guests).
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.ResponseBadRequest(w, "email query parameter is required", nil)
		return
	}

	order, err := h.service.Track(r.Context(), chi.URLParam(r, "orderNumber"), email)
	if err != nil {
		respondServiceError(w, h.log, err, "track order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}

// GetUserOrders handles GET /api/orders (protected).
func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	orders, err := h.service.GetUserOrders(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		respondServiceError(w, h.log, err, "get user orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// Cancel handles PUT /api/orders/{id}/cancel (protected; owner or admin).
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CancelOrderRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // reason is optional
	}

	if err := h.service.Cancel(r.Context(), &userID, utils.IsAdmin(r.Context()), chi.URLParam(r, "id"), req.Reason); err != nil {
		respondServiceError(w, h.log, err, "cancel order")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// List handles GET /api/orders/admin/all?status= (admin).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		respondServiceError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// UpdateStatus handles PUT /api/orders/{id}/status (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), actorID, chi.URLParam(r, "id"), &req); err != nil {
		respondServiceError(w, h.log, err, "update order status")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
