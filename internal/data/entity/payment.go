package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCash  PaymentMethod = "cash"
)

type Payment struct {
	Base
	TransactionID     string        `db:"transaction_id"`
	BookingID         uuid.UUID     `db:"booking_id"`
	Amount            float64       `db:"amount"`
	Method            PaymentMethod `db:"method"`
	Status            PaymentStatus `db:"status"`
	PhoneNumber       *string       `db:"phone_number"`
	MpesaReceipt      *string       `db:"mpesa_receipt"`
	CheckoutRequestID *string       `db:"checkout_request_id"`
	ResponseCode      *string       `db:"response_code"`
	ResponseMessage   *string       `db:"response_message"`
	PaidAt            *time.Time    `db:"paid_at"`
}
