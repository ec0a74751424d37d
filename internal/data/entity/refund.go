package entity

import (
	"time"

	"github.com/google/uuid"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusFailed    RefundStatus = "failed"
)

type Refund struct {
	BaseSimple
	PaymentID   uuid.UUID    `db:"payment_id"`
	BookingID   uuid.UUID    `db:"booking_id"`
	Amount      float64      `db:"amount"`
	Reason      string       `db:"reason"`
	Status      RefundStatus `db:"status"`
	ProcessedAt *time.Time   `db:"processed_at"`
}

// RefundFraction returns the refundable share of the fare for a cancellation
// the given duration before departure.
func RefundFraction(untilDeparture time.Duration) float64 {
	switch {
	case untilDeparture >= 24*time.Hour:
		return 0.9
	case untilDeparture >= 12*time.Hour:
		return 0.7
	case untilDeparture >= 2*time.Hour:
		return 0.5
	default:
		return 0
	}
}
