package response

import (
	"time"

	"matatubook/internal/data/entity"
)

type PaymentResponse struct {
	ID                string               `json:"id"`
	TransactionID     string               `json:"transaction_id"`
	BookingID         string               `json:"booking_id"`
	Amount            float64              `json:"amount"`
	Method            entity.PaymentMethod `json:"method"`
	Status            entity.PaymentStatus `json:"status"`
	MpesaReceipt      *string              `json:"mpesa_receipt,omitempty"`
	CheckoutRequestID *string              `json:"checkout_request_id,omitempty"`
	PaidAt            *time.Time           `json:"paid_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type InitiatePaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Message string          `json:"message"`
}

// Helper converters
func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                payment.ID.String(),
		TransactionID:     payment.TransactionID,
		BookingID:         payment.BookingID.String(),
		Amount:            payment.Amount,
		Method:            payment.Method,
		Status:            payment.Status,
		MpesaReceipt:      payment.MpesaReceipt,
		CheckoutRequestID: payment.CheckoutRequestID,
		PaidAt:            payment.PaidAt,
		CreatedAt:         payment.CreatedAt,
	}
}
