package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/data/repository"
	"matatubook/internal/dto/request"
	"matatubook/internal/dto/response"
	"matatubook/pkg/mpesa"
	"matatubook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reconcileAfter is how old a processing payment must be before the worker
// queries Daraja for its outcome. Gives the callback a head start.
const reconcileAfter = 2 * time.Minute

type PaymentService interface {
	InitiatePayment(ctx context.Context, customerID uuid.UUID, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error)
	PaymentStatus(ctx context.Context, customerID, bookingID uuid.UUID) (*response.PaymentResponse, error)
	ProcessCallback(ctx context.Context, cb *mpesa.Callback) error
	ReconcilePending(ctx context.Context) (int, error)
}

type paymentService struct {
	repo  *repository.Repository
	stk   STKGateway
	notif *notifier
	log   *zap.Logger
}

func NewPaymentService(repo *repository.Repository, stk STKGateway, notif *notifier, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:  repo,
		stk:   stk,
		notif: notif,
		log:   log,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, customerID uuid.UUID, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID")
	}

	// 2. Booking must belong to the caller and still be payable
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, fmt.Errorf("failed to initiate payment")
	}
	if booking == nil || booking.CustomerID != customerID {
		return nil, fmt.Errorf("booking not found")
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking is not awaiting payment")
	}

	now := time.Now()
	if now.After(booking.ExpiresAt) {
		return nil, fmt.Errorf("booking has expired")
	}

	switch entity.PaymentMethod(req.Method) {
	case entity.PaymentMethodMpesa:
		return s.initiateMpesa(ctx, booking, req.PhoneNumber, now)
	case entity.PaymentMethodCash:
		return s.initiateCash(ctx, booking, now)
	default:
		return nil, fmt.Errorf("unsupported payment method")
	}
}

func (s *paymentService) initiateMpesa(ctx context.Context, booking *entity.Booking, phoneOverride *string, now time.Time) (*response.InitiatePaymentResponse, error) {
	phone := booking.PassengerPhone
	if phoneOverride != nil && *phoneOverride != "" {
		phone = utils.NormalizePhone(*phoneOverride)
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID: utils.GenerateTransactionID(),
		BookingID:     booking.ID,
		Amount:        booking.TotalFare,
		Method:        entity.PaymentMethodMpesa,
		Status:        entity.PaymentStatusProcessing,
		PhoneNumber:   &phone,
	}

	// Send the STK prompt before persisting so we can store the checkout ID
	result, err := s.stk.STKPush(ctx, phone, booking.TotalFare, booking.Reference,
		fmt.Sprintf("MatatuBook booking %s", booking.Reference))
	if err != nil {
		s.log.Error("STK push failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, fmt.Errorf("failed to initiate M-Pesa payment, please try again")
	}

	payment.CheckoutRequestID = &result.CheckoutRequestID

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.log.Error("Failed to create payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to initiate payment")
	}

	s.log.Info("M-Pesa payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("checkout_request_id", result.CheckoutRequestID),
	)

	return &response.InitiatePaymentResponse{
		Payment: response.PaymentToResponse(payment),
		Message: "Payment prompt sent to your phone. Enter your M-Pesa PIN to complete.",
	}, nil
}

// initiateCash confirms the booking immediately; the fare is collected when the
// passenger boards.
func (s *paymentService) initiateCash(ctx context.Context, booking *entity.Booking, now time.Time) (*response.InitiatePaymentResponse, error) {
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID: utils.GenerateTransactionID(),
		BookingID:     booking.ID,
		Amount:        booking.TotalFare,
		Method:        entity.PaymentMethodCash,
		Status:        entity.PaymentStatusPending,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.log.Error("Failed to create payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to initiate payment")
	}

	if err := s.confirmBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to initiate payment")
	}

	message := fmt.Sprintf("Booking %s confirmed. Pay %s in cash when boarding.",
		booking.Reference, utils.FormatKES(booking.TotalFare))
	s.notif.notify(ctx, booking.CustomerID, entity.NotificationPayment, "Booking confirmed", message, nil)
	s.notif.sendSMS(ctx, booking.PassengerPhone, "MatatuBook: "+message)

	s.log.Info("Cash payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
	)

	return &response.InitiatePaymentResponse{
		Payment: response.PaymentToResponse(payment),
		Message: message,
	}, nil
}

func (s *paymentService) PaymentStatus(ctx context.Context, customerID, bookingID uuid.UUID) (*response.PaymentResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to load payment status")
	}
	if booking == nil || booking.CustomerID != customerID {
		return nil, fmt.Errorf("booking not found")
	}

	payment, err := s.repo.Payment.FindLatestByBookingID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find payment", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to load payment status")
	}
	if payment == nil {
		return nil, fmt.Errorf("no payment found for this booking")
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// ProcessCallback handles the asynchronous Daraja result for an STK push.
// Safe to call more than once for the same checkout request.
func (s *paymentService) ProcessCallback(ctx context.Context, cb *mpesa.Callback) error {
	payment, err := s.repo.Payment.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID())
	if err != nil {
		s.log.Error("Failed to find payment for callback",
			zap.Error(err),
			zap.String("checkout_request_id", cb.CheckoutRequestID()),
		)
		return fmt.Errorf("failed to process callback")
	}
	if payment == nil {
		s.log.Warn("Callback for unknown checkout request",
			zap.String("checkout_request_id", cb.CheckoutRequestID()),
		)
		return fmt.Errorf("unknown checkout request")
	}

	if payment.Status != entity.PaymentStatusProcessing {
		// Already finalized by an earlier callback or the reconcile worker
		s.log.Info("Callback for already finalized payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
		return nil
	}

	code := strconv.Itoa(cb.ResultCode())
	desc := cb.ResultDesc()

	if cb.Succeeded() {
		receipt := cb.Receipt()
		return s.completePayment(ctx, payment, &receipt, code, desc)
	}
	return s.failPayment(ctx, payment, code, desc)
}

// ReconcilePending queries Daraja for processing payments whose callback never
// arrived and finalizes the ones with a definitive outcome.
func (s *paymentService) ReconcilePending(ctx context.Context) (int, error) {
	payments, err := s.repo.Payment.FindProcessingSince(ctx, time.Now().Add(-reconcileAfter))
	if err != nil {
		return 0, fmt.Errorf("find processing payments: %w", err)
	}

	finalized := 0
	for _, payment := range payments {
		if payment.CheckoutRequestID == nil {
			continue
		}

		result, err := s.stk.QueryStatus(ctx, *payment.CheckoutRequestID)
		if err != nil {
			// Still processing or Daraja unreachable; try again next tick
			s.log.Warn("Failed to query payment status",
				zap.Error(err),
				zap.String("payment_id", payment.ID.String()),
			)
			continue
		}

		if result.ResultCode == "0" {
			if err := s.completePayment(ctx, payment, nil, result.ResultCode, result.ResultDesc); err == nil {
				finalized++
			}
			continue
		}

		if err := s.failPayment(ctx, payment, result.ResultCode, result.ResultDesc); err == nil {
			finalized++
		}
	}

	return finalized, nil
}

func (s *paymentService) completePayment(ctx context.Context, payment *entity.Payment, receipt *string, code, desc string) error {
	now := time.Now()
	payment.Status = entity.PaymentStatusCompleted
	payment.PaidAt = &now
	payment.ResponseCode = &code
	payment.ResponseMessage = &desc
	if receipt != nil && *receipt != "" {
		payment.MpesaReceipt = receipt
	}

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		s.log.Error("Failed to complete payment", zap.Error(err), zap.String("payment_id", payment.ID.String()))
		return fmt.Errorf("failed to complete payment")
	}

	booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
	if err != nil || booking == nil {
		s.log.Error("Failed to load booking for completed payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("failed to complete payment")
	}

	if err := s.confirmBooking(ctx, booking); err != nil {
		return fmt.Errorf("failed to complete payment")
	}

	message := fmt.Sprintf("Payment of %s received. Booking %s confirmed. Safiri salama!",
		utils.FormatKES(payment.Amount), booking.Reference)
	s.notif.notify(ctx, booking.CustomerID, entity.NotificationPayment, "Payment received", message, nil)
	s.notif.sendSMS(ctx, booking.PassengerPhone, "MatatuBook: "+message)

	s.log.Info("Payment completed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.Float64("amount", payment.Amount),
	)

	return nil
}

func (s *paymentService) failPayment(ctx context.Context, payment *entity.Payment, code, desc string) error {
	payment.Status = entity.PaymentStatusFailed
	payment.ResponseCode = &code
	payment.ResponseMessage = &desc

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		s.log.Error("Failed to mark payment failed", zap.Error(err), zap.String("payment_id", payment.ID.String()))
		return fmt.Errorf("failed to record payment failure")
	}

	booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
	if err != nil || booking == nil {
		s.log.Error("Failed to load booking for failed payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("failed to record payment failure")
	}

	// The booking stays pending so the customer can retry until it expires
	message := fmt.Sprintf("Payment for booking %s failed: %s. Please try again.", booking.Reference, desc)
	s.notif.notify(ctx, booking.CustomerID, entity.NotificationPayment, "Payment failed", message, nil)

	s.log.Info("Payment failed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("result_code", code),
		zap.String("result_desc", desc),
	)

	return nil
}

func (s *paymentService) confirmBooking(ctx context.Context, booking *entity.Booking) error {
	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed); err != nil {
		s.log.Error("Failed to confirm booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return err
	}

	if err := s.repo.SeatBooking.UpdateStatusByBookingID(ctx, booking.ID, entity.SeatStatusBooked); err != nil {
		s.log.Error("Failed to mark seats booked", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return err
	}

	booking.Status = entity.BookingStatusConfirmed
	return nil
}
