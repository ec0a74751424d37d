package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// PendingExpiry is how long a customer has to complete payment before a
// pending booking lapses and its seats go back on sale.
const PendingExpiry = 10 * time.Minute

// CancelCutoff is the minimum time before departure a booking may still be
// cancelled by the customer.
const CancelCutoff = 2 * time.Hour

// NoShowAfter is how long after actual departure a confirmed booking that was
// never checked in gets marked no-show.
const NoShowAfter = 1 * time.Hour

type Booking struct {
	Base
	Reference      string        `db:"reference"`
	CustomerID     uuid.UUID     `db:"customer_id"`
	TripID         uuid.UUID     `db:"trip_id"`
	SeatCount      int           `db:"seat_count"`
	BoardingPoint  string        `db:"boarding_point"`
	DroppingPoint  string        `db:"dropping_point"`
	TotalFare      float64       `db:"total_fare"`
	Status         BookingStatus `db:"status"`
	PassengerName  string        `db:"passenger_name"`
	PassengerPhone string        `db:"passenger_phone"`
	PassengerEmail *string       `db:"passenger_email"`
	PromoCode      *string       `db:"promo_code"`
	RefundAmount   float64       `db:"refund_amount"`
	CancelReason   *string       `db:"cancel_reason"`
	CancelledAt    *time.Time    `db:"cancelled_at"`
	ExpiresAt      time.Time     `db:"expires_at"`
}

// Cancellable reports whether the booking may still be cancelled given the
// trip departure instant.
func (b *Booking) Cancellable(departure, now time.Time) bool {
	if b.Status != BookingStatusPending && b.Status != BookingStatusConfirmed {
		return false
	}
	return departure.Sub(now) >= CancelCutoff
}
