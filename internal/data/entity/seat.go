package entity

import (
	"github.com/google/uuid"
)

type Seat struct {
	BaseSimple
	VehicleID  uuid.UUID `db:"vehicle_id"`
	SeatNumber string    `db:"seat_number"`
	SeatRow    int       `db:"seat_row"`
	SeatColumn string    `db:"seat_column"`
	IsWindow   bool      `db:"is_window"`
	IsAisle    bool      `db:"is_aisle"`
}
