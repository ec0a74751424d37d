package adaptor

import (
	"encoding/json"
	"net/http"

	"matatubook/internal/dto/request"
	"matatubook/internal/usecase"
	"matatubook/pkg/mpesa"
	"matatubook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/payments/initiate/ (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.InitiatePayment(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "initiate payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// PaymentStatus handles GET /api/payments/status/{id}/ (protected). The ID is
// the booking ID; the frontend polls this while the STK prompt is open.
func (h *PaymentHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	payment, err := h.service.PaymentStatus(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payment status")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// MpesaCallback handles POST /api/payments/mpesa/callback/ (public). Daraja
// posts the STK result here. Always acknowledge with ResultCode 0 so Daraja
// stops retrying; failures on our side are reconciled by the worker.
func (h *PaymentHandler) MpesaCallback(w http.ResponseWriter, r *http.Request) {
	cb, err := mpesa.ParseCallback(r.Body)
	if err != nil {
		h.log.Warn("Malformed M-Pesa callback", zap.Error(err))
		h.acknowledge(w)
		return
	}

	if err := h.service.ProcessCallback(r.Context(), cb); err != nil {
		h.log.Error("Failed to process M-Pesa callback",
			zap.Error(err),
			zap.String("checkout_request_id", cb.CheckoutRequestID()),
		)
	}

	h.acknowledge(w)
}

func (h *PaymentHandler) acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
	})
}
