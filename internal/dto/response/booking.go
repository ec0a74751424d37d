package response

import (
	"time"

	"matatubook/internal/data/entity"
)

type BookingResponse struct {
	ID             string               `json:"id"`
	Reference      string               `json:"reference"`
	TripID         string               `json:"trip_id"`
	Origin         string               `json:"origin,omitempty"`
	Destination    string               `json:"destination,omitempty"`
	DepartureDate  string               `json:"departure_date,omitempty"`
	DepartureTime  string               `json:"departure_time,omitempty"`
	SeatCount      int                  `json:"seat_count"`
	SeatNumbers    []string             `json:"seat_numbers,omitempty"`
	BoardingPoint  string               `json:"boarding_point"`
	DroppingPoint  string               `json:"dropping_point"`
	TotalFare      float64              `json:"total_fare"`
	Status         entity.BookingStatus `json:"status"`
	PassengerName  string               `json:"passenger_name"`
	PassengerPhone string               `json:"passenger_phone"`
	PromoCode      *string              `json:"promo_code,omitempty"`
	Payment        *PaymentResponse     `json:"payment,omitempty"`
	ExpiresAt      time.Time            `json:"expires_at"`
	CreatedAt      time.Time            `json:"created_at"`
}

type CancelBookingResponse struct {
	Reference    string  `json:"reference"`
	RefundAmount float64 `json:"refund_amount"`
	Message      string  `json:"message"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, seatNumbers []string) BookingResponse {
	return BookingResponse{
		ID:             booking.ID.String(),
		Reference:      booking.Reference,
		TripID:         booking.TripID.String(),
		SeatCount:      booking.SeatCount,
		SeatNumbers:    seatNumbers,
		BoardingPoint:  booking.BoardingPoint,
		DroppingPoint:  booking.DroppingPoint,
		TotalFare:      booking.TotalFare,
		Status:         booking.Status,
		PassengerName:  booking.PassengerName,
		PassengerPhone: booking.PassengerPhone,
		PromoCode:      booking.PromoCode,
		ExpiresAt:      booking.ExpiresAt,
		CreatedAt:      booking.CreatedAt,
	}
}

func BookingWithTripToResponse(booking *entity.Booking, trip *entity.Trip, route *entity.Route, seatNumbers []string) BookingResponse {
	resp := BookingToResponse(booking, seatNumbers)
	if trip != nil {
		resp.DepartureDate = trip.DepartureDate.Format("2006-01-02")
		resp.DepartureTime = trip.DepartureTime.Format("15:04")
	}
	if route != nil {
		resp.Origin = route.Origin
		resp.Destination = route.Destination
	}
	return resp
}
