package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/dto/request"
	"matatubook/pkg/mpesa"

	"github.com/google/uuid"
)

// seedPendingBooking puts a pending booking with held seats straight into the
// fakes, skipping the booking service.
func seedPendingBooking(env *testEnv, seatCount int) *entity.Booking {
	now := time.Now()
	booking := &entity.Booking{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Reference:      "MB-TEST01",
		CustomerID:     env.customerID,
		TripID:         env.trip.ID,
		SeatCount:      seatCount,
		BoardingPoint:  "Railways",
		DroppingPoint:  "Mombasa CBD",
		TotalFare:      env.trip.Fare * float64(seatCount),
		Status:         entity.BookingStatusPending,
		PassengerName:  "Wanjiku Kamau",
		PassengerPhone: "254712345678",
		ExpiresAt:      now.Add(entity.PendingExpiry),
	}
	env.bookings.bookings[booking.ID] = booking

	heldUntil := booking.ExpiresAt
	for i := 0; i < seatCount; i++ {
		env.seatBkgs.seatBookings = append(env.seatBkgs.seatBookings, &entity.SeatBooking{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:  &booking.ID,
			TripID:     env.trip.ID,
			SeatID:     env.seatIDs[i],
			Status:     entity.SeatStatusHeld,
			HeldUntil:  &heldUntil,
		})
	}
	env.trip.AvailableSeats -= seatCount

	return booking
}

func seedProcessingPayment(env *testEnv, booking *entity.Booking, checkoutID string, age time.Duration) *entity.Payment {
	created := time.Now().Add(-age)
	phone := booking.PassengerPhone
	payment := &entity.Payment{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
		TransactionID:     "TXN-TEST-0002",
		BookingID:         booking.ID,
		Amount:            booking.TotalFare,
		Method:            entity.PaymentMethodMpesa,
		Status:            entity.PaymentStatusProcessing,
		PhoneNumber:       &phone,
		CheckoutRequestID: &checkoutID,
	}
	env.payments.payments[payment.ID] = payment
	return payment
}

func successCallback(checkoutID string) *mpesa.Callback {
	body := fmt.Sprintf(`{"Body":{"stkCallback":{
		"MerchantRequestID":"29115-34620561-1",
		"CheckoutRequestID":%q,
		"ResultCode":0,
		"ResultDesc":"The service request is processed successfully.",
		"CallbackMetadata":{"Item":[
			{"Name":"Amount","Value":2000.00},
			{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},
			{"Name":"PhoneNumber","Value":254712345678}
		]}}}}`, checkoutID)
	cb, err := mpesa.ParseCallback(strings.NewReader(body))
	if err != nil {
		panic(err)
	}
	return cb
}

func failureCallback(checkoutID string) *mpesa.Callback {
	body := fmt.Sprintf(`{"Body":{"stkCallback":{
		"MerchantRequestID":"29115-34620561-1",
		"CheckoutRequestID":%q,
		"ResultCode":1032,
		"ResultDesc":"Request cancelled by user"}}}`, checkoutID)
	cb, err := mpesa.ParseCallback(strings.NewReader(body))
	if err != nil {
		panic(err)
	}
	return cb
}

func TestInitiatePaymentMpesa(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 2)
	env.stk.checkoutID = "ws_CO_abc123"

	resp, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    "mpesa",
	})
	if err != nil {
		t.Fatalf("InitiatePayment failed: %v", err)
	}

	if resp.Payment.Status != entity.PaymentStatusProcessing {
		t.Errorf("expected processing payment, got %s", resp.Payment.Status)
	}
	if resp.Payment.CheckoutRequestID == nil || *resp.Payment.CheckoutRequestID != "ws_CO_abc123" {
		t.Errorf("expected checkout request ID stored, got %v", resp.Payment.CheckoutRequestID)
	}
	if len(env.stk.pushes) != 1 || env.stk.pushes[0] != "254712345678" {
		t.Errorf("expected STK push to passenger phone, got %v", env.stk.pushes)
	}
	if booking.Status != entity.BookingStatusPending {
		t.Errorf("booking should stay pending until the callback, got %s", booking.Status)
	}
	if !strings.Contains(resp.Message, "prompt sent") {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestInitiatePaymentMpesaPhoneOverride(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)

	override := "0798765432"
	_, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID:   booking.ID.String(),
		Method:      "mpesa",
		PhoneNumber: &override,
	})
	if err != nil {
		t.Fatalf("InitiatePayment failed: %v", err)
	}
	if len(env.stk.pushes) != 1 || env.stk.pushes[0] != "254798765432" {
		t.Errorf("expected push to normalized override phone, got %v", env.stk.pushes)
	}
}

func TestInitiatePaymentMpesaPushFails(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	env.stk.pushErr = fmt.Errorf("daraja unreachable")

	_, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    "mpesa",
	})
	if err == nil {
		t.Fatalf("expected error when STK push fails")
	}
	if len(env.payments.payments) != 0 {
		t.Errorf("no payment should be persisted when the push fails")
	}
}

func TestInitiatePaymentCash(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)

	resp, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    "cash",
	})
	if err != nil {
		t.Fatalf("InitiatePayment failed: %v", err)
	}

	if resp.Payment.Status != entity.PaymentStatusPending {
		t.Errorf("expected pending cash payment, got %s", resp.Payment.Status)
	}
	if booking.Status != entity.BookingStatusConfirmed {
		t.Errorf("cash booking should confirm immediately, got %s", booking.Status)
	}
	for _, sb := range env.seatBkgs.seatBookings {
		if sb.Status != entity.SeatStatusBooked {
			t.Errorf("expected booked seat, got %s", sb.Status)
		}
	}
	if !strings.Contains(resp.Message, "cash") {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestInitiatePaymentNotPending(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	booking.Status = entity.BookingStatusConfirmed

	_, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    "mpesa",
	})
	if err == nil || !strings.Contains(err.Error(), "not awaiting payment") {
		t.Fatalf("expected not awaiting payment error, got %v", err)
	}
}

func TestInitiatePaymentExpiredBooking(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	booking.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := svc.InitiatePayment(context.Background(), env.customerID, &request.InitiatePaymentRequest{
		BookingID: booking.ID.String(),
		Method:    "mpesa",
	})
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired booking error, got %v", err)
	}
}

func TestProcessCallbackSuccess(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 2)
	payment := seedProcessingPayment(env, booking, "ws_CO_success", time.Minute)

	if err := svc.ProcessCallback(context.Background(), successCallback("ws_CO_success")); err != nil {
		t.Fatalf("ProcessCallback failed: %v", err)
	}

	if payment.Status != entity.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", payment.Status)
	}
	if payment.MpesaReceipt == nil || *payment.MpesaReceipt != "NLJ7RT61SV" {
		t.Errorf("expected receipt stored, got %v", payment.MpesaReceipt)
	}
	if payment.PaidAt == nil {
		t.Errorf("expected paid_at set")
	}
	if booking.Status != entity.BookingStatusConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	for _, sb := range env.seatBkgs.seatBookings {
		if sb.Status != entity.SeatStatusBooked {
			t.Errorf("expected booked seat, got %s", sb.Status)
		}
	}
	if len(env.sms.messages) != 1 || !strings.Contains(env.sms.messages[0], "confirmed") {
		t.Errorf("expected confirmation SMS, got %v", env.sms.messages)
	}
}

func TestProcessCallbackFailure(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	payment := seedProcessingPayment(env, booking, "ws_CO_fail", time.Minute)

	if err := svc.ProcessCallback(context.Background(), failureCallback("ws_CO_fail")); err != nil {
		t.Fatalf("ProcessCallback failed: %v", err)
	}

	if payment.Status != entity.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", payment.Status)
	}
	if payment.ResponseCode == nil || *payment.ResponseCode != "1032" {
		t.Errorf("expected result code 1032, got %v", payment.ResponseCode)
	}
	// Booking stays pending so the customer can retry
	if booking.Status != entity.BookingStatusPending {
		t.Errorf("expected pending booking after failure, got %s", booking.Status)
	}
	for _, sb := range env.seatBkgs.seatBookings {
		if sb.Status != entity.SeatStatusHeld {
			t.Errorf("seats should stay held after failed payment, got %s", sb.Status)
		}
	}
}

func TestProcessCallbackIdempotent(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	seedProcessingPayment(env, booking, "ws_CO_dup", time.Minute)

	if err := svc.ProcessCallback(context.Background(), successCallback("ws_CO_dup")); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}
	notifsAfterFirst := len(env.notifs.notifications)

	if err := svc.ProcessCallback(context.Background(), successCallback("ws_CO_dup")); err != nil {
		t.Fatalf("duplicate callback should be a no-op, got %v", err)
	}
	if len(env.notifs.notifications) != notifsAfterFirst {
		t.Errorf("duplicate callback must not re-notify")
	}
}

func TestProcessCallbackUnknownCheckout(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()

	err := svc.ProcessCallback(context.Background(), successCallback("ws_CO_unknown"))
	if err == nil || !strings.Contains(err.Error(), "unknown checkout request") {
		t.Fatalf("expected unknown checkout error, got %v", err)
	}
}

func TestReconcilePending(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)

	// Old enough to query, outcome known
	settled := seedProcessingPayment(env, booking, "ws_CO_settled", 5*time.Minute)
	// Too fresh, must be skipped
	fresh := seedProcessingPayment(env, booking, "ws_CO_fresh", 30*time.Second)
	// Old enough but Daraja still has no outcome
	unsettled := seedProcessingPayment(env, booking, "ws_CO_limbo", 5*time.Minute)

	env.stk.queryResults = map[string]*mpesa.STKQueryResult{
		"ws_CO_settled": {ResultCode: "0", ResultDesc: "The service request is processed successfully."},
	}

	finalized, err := svc.ReconcilePending(context.Background())
	if err != nil {
		t.Fatalf("ReconcilePending failed: %v", err)
	}
	if finalized != 1 {
		t.Fatalf("expected 1 finalized payment, got %d", finalized)
	}
	if settled.Status != entity.PaymentStatusCompleted {
		t.Errorf("expected settled payment completed, got %s", settled.Status)
	}
	if fresh.Status != entity.PaymentStatusProcessing {
		t.Errorf("fresh payment must not be queried yet, got %s", fresh.Status)
	}
	if unsettled.Status != entity.PaymentStatusProcessing {
		t.Errorf("unsettled payment should stay processing, got %s", unsettled.Status)
	}
}

func TestReconcilePendingFailure(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	payment := seedProcessingPayment(env, booking, "ws_CO_cancelled", 5*time.Minute)

	env.stk.queryResults = map[string]*mpesa.STKQueryResult{
		"ws_CO_cancelled": {ResultCode: "1032", ResultDesc: "Request cancelled by user"},
	}

	finalized, err := svc.ReconcilePending(context.Background())
	if err != nil {
		t.Fatalf("ReconcilePending failed: %v", err)
	}
	if finalized != 1 {
		t.Fatalf("expected 1 finalized payment, got %d", finalized)
	}
	if payment.Status != entity.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", payment.Status)
	}
	if booking.Status != entity.BookingStatusPending {
		t.Errorf("booking stays pending after a failed payment, got %s", booking.Status)
	}
}

func TestPaymentStatus(t *testing.T) {
	env := newTestEnv(3 * time.Hour)
	svc := env.paymentService()
	booking := seedPendingBooking(env, 1)
	seedProcessingPayment(env, booking, "ws_CO_status", time.Minute)

	resp, err := svc.PaymentStatus(context.Background(), env.customerID, booking.ID)
	if err != nil {
		t.Fatalf("PaymentStatus failed: %v", err)
	}
	if resp.Status != entity.PaymentStatusProcessing {
		t.Errorf("expected processing, got %s", resp.Status)
	}

	_, err = svc.PaymentStatus(context.Background(), uuid.New(), booking.ID)
	if err == nil || !strings.Contains(err.Error(), "booking not found") {
		t.Fatalf("expected not found for other customer, got %v", err)
	}
}
