package usecase

import (
	"context"

	"matatubook/internal/data/repository"
	"matatubook/pkg/mpesa"
	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

// STKGateway is the slice of the M-Pesa client the payment service needs.
// Kept as an interface so tests can substitute a fake gateway.
type STKGateway interface {
	STKPush(ctx context.Context, phone string, amount float64, reference, description string) (*mpesa.STKPushResult, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.STKQueryResult, error)
}

// SMSSender sends a text message and returns the raw gateway response.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type Service struct {
	Auth         AuthService
	Trip         TripService
	Booking      BookingService
	Payment      PaymentService
	Notification NotificationService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	stk STKGateway,
	sms SMSSender,
	log *zap.Logger,
) *Service {
	notif := newNotifier(repo, sms, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Trip:         NewTripService(repo, log),
		Booking:      NewBookingService(repo, notif, log),
		Payment:      NewPaymentService(repo, stk, notif, log),
		Notification: NewNotificationService(repo, log),
	}
}
