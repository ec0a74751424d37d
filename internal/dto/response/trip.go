package response

import (
	"time"

	"matatubook/internal/data/entity"
)

type SaccoResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PhoneNumber  string  `json:"phone_number"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}

type RouteResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	DistanceKM        float64 `json:"distance_km"`
	EstimatedDuration int     `json:"estimated_duration"`
	BaseFare          float64 `json:"base_fare"`
}

type VehicleResponse struct {
	ID                 string             `json:"id"`
	RegistrationNumber string             `json:"registration_number"`
	VehicleType        entity.VehicleType `json:"vehicle_type"`
	Capacity           int                `json:"capacity"`
	HasWifi            bool               `json:"has_wifi"`
	HasChargingPorts   bool               `json:"has_charging_ports"`
}

type TripResponse struct {
	ID             string            `json:"id"`
	Route          RouteResponse     `json:"route"`
	Sacco          SaccoResponse     `json:"sacco"`
	Vehicle        VehicleResponse   `json:"vehicle"`
	DepartureDate  string            `json:"departure_date"`
	DepartureTime  string            `json:"departure_time"`
	Status         entity.TripStatus `json:"status"`
	Fare           float64           `json:"fare"`
	AvailableSeats int               `json:"available_seats"`
	TotalSeats     int               `json:"total_seats"`
	IsExpress      bool              `json:"is_express"`
	Bookable       bool              `json:"bookable"`
}

type SeatResponse struct {
	ID         string `json:"id"`
	SeatNumber string `json:"seat_number"`
	SeatRow    int    `json:"seat_row"`
	SeatColumn string `json:"seat_column"`
	IsWindow   bool   `json:"is_window"`
	IsAisle    bool   `json:"is_aisle"`
	IsOccupied bool   `json:"is_occupied"`
}

type TripDetailResponse struct {
	TripResponse
	Seats []SeatResponse `json:"seats"`
}

// SeatAvailabilityResponse answers the live seat-check poll on the booking page.
type SeatAvailabilityResponse struct {
	TripID         string   `json:"trip_id"`
	AvailableSeats int      `json:"available_seats"`
	OccupiedSeats  []string `json:"occupied_seats"`
	Bookable       bool     `json:"bookable"`
}

// Helper converters
func SaccoToResponse(s *entity.Sacco) SaccoResponse {
	return SaccoResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		PhoneNumber:  s.PhoneNumber,
		Rating:       s.Rating,
		TotalReviews: s.TotalReviews,
	}
}

func RouteToResponse(r *entity.Route) RouteResponse {
	return RouteResponse{
		ID:                r.ID.String(),
		Name:              r.Name,
		Origin:            r.Origin,
		Destination:       r.Destination,
		DistanceKM:        r.DistanceKM,
		EstimatedDuration: r.EstimatedDuration,
		BaseFare:          r.BaseFare,
	}
}

func VehicleToResponse(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID.String(),
		RegistrationNumber: v.RegistrationNumber,
		VehicleType:        v.VehicleType,
		Capacity:           v.Capacity,
		HasWifi:            v.HasWifi,
		HasChargingPorts:   v.HasChargingPorts,
	}
}

func TripToResponse(trip *entity.Trip, route *entity.Route, sacco *entity.Sacco, vehicle *entity.Vehicle, now time.Time) TripResponse {
	return TripResponse{
		ID:             trip.ID.String(),
		Route:          RouteToResponse(route),
		Sacco:          SaccoToResponse(sacco),
		Vehicle:        VehicleToResponse(vehicle),
		DepartureDate:  trip.DepartureDate.Format("2006-01-02"),
		DepartureTime:  trip.DepartureTime.Format("15:04"),
		Status:         trip.Status,
		Fare:           trip.Fare,
		AvailableSeats: trip.AvailableSeats,
		TotalSeats:     trip.TotalSeats,
		IsExpress:      trip.IsExpress,
		Bookable:       trip.Bookable(now),
	}
}

func SeatToResponse(seat *entity.Seat, occupied bool) SeatResponse {
	return SeatResponse{
		ID:         seat.ID.String(),
		SeatNumber: seat.SeatNumber,
		SeatRow:    seat.SeatRow,
		SeatColumn: seat.SeatColumn,
		IsWindow:   seat.IsWindow,
		IsAisle:    seat.IsAisle,
		IsOccupied: occupied,
	}
}
