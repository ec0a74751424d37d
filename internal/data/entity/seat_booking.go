package entity

import (
	"time"

	"github.com/google/uuid"
)

type SeatBookingStatus string

const (
	SeatStatusHeld     SeatBookingStatus = "held"
	SeatStatusBooked   SeatBookingStatus = "booked"
	SeatStatusReleased SeatBookingStatus = "released"
)

// SeatBooking ties a seat to a trip. A seat is held while payment is pending
// and becomes booked once the payment completes; releasing it puts the seat
// back on sale. (trip_id, seat_id) is unique among held/booked rows.
type SeatBooking struct {
	BaseSimple
	BookingID *uuid.UUID        `db:"booking_id"`
	TripID    uuid.UUID         `db:"trip_id"`
	SeatID    uuid.UUID         `db:"seat_id"`
	Status    SeatBookingStatus `db:"status"`
	HeldUntil *time.Time        `db:"held_until"`
}
