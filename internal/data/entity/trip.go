package entity

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusBoarding  TripStatus = "boarding"
	TripStatusInTransit TripStatus = "in_transit"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// BookingCutoff is how close to departure a trip stops accepting bookings.
const BookingCutoff = 30 * time.Minute

type Trip struct {
	Base
	SaccoID         uuid.UUID  `db:"sacco_id"`
	RouteID         uuid.UUID  `db:"route_id"`
	VehicleID       uuid.UUID  `db:"vehicle_id"`
	DepartureDate   time.Time  `db:"departure_date"`
	DepartureTime   time.Time  `db:"departure_time"`
	ActualDeparture *time.Time `db:"actual_departure"`
	ActualArrival   *time.Time `db:"actual_arrival"`
	Status          TripStatus `db:"status"`
	Fare            float64    `db:"fare"`
	AvailableSeats  int        `db:"available_seats"`
	TotalSeats      int        `db:"total_seats"`
	IsExpress       bool       `db:"is_express"`
}

// DepartureAt combines the departure date and time columns into one instant.
func (t *Trip) DepartureAt() time.Time {
	d := t.DepartureDate
	c := t.DepartureTime
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.Local)
}

// Bookable reports whether the trip still accepts bookings: it must be
// scheduled, have seats left, and depart at least BookingCutoff from now.
func (t *Trip) Bookable(now time.Time) bool {
	return t.Status == TripStatusScheduled &&
		t.AvailableSeats > 0 &&
		t.DepartureAt().Sub(now) >= BookingCutoff
}
