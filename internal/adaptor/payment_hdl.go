package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/usecase"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Webhook bodies are small JSON events; cap reads defensively.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	service usecase.PaymentService
	gateway gateway.Client
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, gw gateway.Client, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		gateway: gw,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Initialize handles POST /api/payment/initialize.
func (h *PaymentHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req request.InitializePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.Initialize(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "initialize payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Verify handles GET /api/payment/verify/{reference}. The redirect target
// after gateway checkout; safe to hit repeatedly.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		utils.ResponseBadRequest(w, "reference is required", nil)
		return
	}

	result, err := h.service.Verify(r.Context(), reference)
	if err != nil {
		respondServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Webhook handles POST /api/payment/webhook. A bad signature is rejected;
// any failure after that is acked with 200 so the provider does not retry
// forever, and the event is recoverable by re-verifying the reference.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "unreadable body", nil)
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if !h.gateway.ValidateWebhookSignature(body, signature) {
		h.log.Warn("Webhook signature rejected")
		utils.ResponseBadRequest(w, "invalid signature", nil)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), body); err != nil {
		h.log.Error("Webhook processing failed, acking anyway", zap.Error(err))
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ConfirmTransfer handles PUT /api/payment/confirm-bank-transfer/{orderId} (admin).
func (h *PaymentHandler) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.ConfirmBankTransfer(r.Context(), actorID, chi.URLParam(r, "orderId")); err != nil {
		respondServiceError(w, h.log, err, "confirm bank transfer")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
