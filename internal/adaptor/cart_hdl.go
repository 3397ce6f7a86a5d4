package adaptor

import (
	"encoding/json"
	"net/http"

	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/usecase"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// Get handles GET /api/cart (protected).
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	items, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.log, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// Add handles POST /api/cart/items (protected).
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	items, err := h.service.Add(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, h.log, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// Remove handles DELETE /api/cart/items/{id} (protected).
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Remove(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.log, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Clear handles DELETE /api/cart (protected).
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		respondServiceError(w, h.log, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
