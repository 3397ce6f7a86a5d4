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

type CouponHandler struct {
	service usecase.CouponService
	log     *zap.Logger
}

func NewCouponHandler(service usecase.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		log:     log.With(zap.String("handler", "coupon")),
	}
}

// Validate handles POST /api/coupons/validate (public; user-aware when
// authenticated so per-user limits apply).
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateCouponRequest
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

	result, err := h.service.Check(r.Context(), &req, userID)
	if err != nil {
		respondServiceError(w, h.log, err, "validate coupon")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Create handles POST /api/admin/coupons (admin).
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	coupon, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "create coupon")
		return
	}

	utils.ResponseCreated(w, "success", coupon)
}

// Update handles PUT /api/admin/coupons/{id} (admin).
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	coupon, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "update coupon")
		return
	}

	utils.ResponseSuccess(w, "success", coupon)
}

// Delete handles DELETE /api/admin/coupons/{id} (admin).
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.log, err, "deactivate coupon")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// List handles GET /api/admin/coupons (admin).
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context(), paginationFromQuery(r))
	if err != nil {
		respondServiceError(w, h.log, err, "list coupons")
		return
	}

	utils.ResponseSuccess(w, "success", coupons)
}
