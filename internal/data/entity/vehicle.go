package entity

import (
	"github.com/google/uuid"
)

type VehicleType string

const (
	Vehicle14Seater VehicleType = "14_seater"
	Vehicle25Seater VehicleType = "25_seater"
	Vehicle33Seater VehicleType = "33_seater"
	Vehicle51Seater VehicleType = "51_seater"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

type Vehicle struct {
	Base
	SaccoID            uuid.UUID     `db:"sacco_id"`
	RegistrationNumber string        `db:"registration_number"`
	VehicleType        VehicleType   `db:"vehicle_type"`
	Capacity           int           `db:"capacity"`
	Status             VehicleStatus `db:"status"`
	HasWifi            bool          `db:"has_wifi"`
	HasChargingPorts   bool          `db:"has_charging_ports"`
}
