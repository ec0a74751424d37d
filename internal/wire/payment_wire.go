package wire

import (
	"matatubook/internal/adaptor"
	"matatubook/internal/data/repository"
	"matatubook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Post("/api/payments/initiate/", paymentHandler.InitiatePayment)
	r.With(auth).Get("/api/payments/status/{id}/", paymentHandler.PaymentStatus)

	// ==================== PUBLIC ROUTES ====================
	// Daraja posts STK results here; it cannot carry a session token
	r.Post("/api/payments/mpesa/callback/", paymentHandler.MpesaCallback)
}
