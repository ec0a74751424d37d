package adaptor

import (
	"net/http"
	"strings"

	"matatubook/internal/usecase"
	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Trip         *TripHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Trip:         NewTripHandler(service.Trip, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}

// handleServiceError maps service errors onto HTTP responses by message
// content. Services return deliberately terse messages for client errors and
// generic ones for internal failures.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already"):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "expired"),
		strings.Contains(errMsg, "no longer"),
		strings.Contains(errMsg, "not awaiting"),
		strings.Contains(errMsg, "not enough"),
		strings.Contains(errMsg, "below promo minimum"),
		strings.Contains(errMsg, "unsupported"):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "deactivated"),
		strings.Contains(errMsg, "credentials"):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
