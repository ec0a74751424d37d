package request

type CreateBookingRequest struct {
	TripID         string   `json:"trip_id" validate:"required,uuid4"`
	SeatIDs        []string `json:"seat_ids" validate:"required,min=1,max=6,dive,uuid4"`
	BoardingPoint  string   `json:"boarding_point" validate:"required,max=100"`
	DroppingPoint  string   `json:"dropping_point" validate:"required,max=100"`
	PassengerName  string   `json:"passenger_name" validate:"required,min=3,max=100"`
	PassengerPhone string   `json:"passenger_phone" validate:"required,kephone"`
	PassengerEmail *string  `json:"passenger_email,omitempty" validate:"omitempty,email"`
	PromoCode      *string  `json:"promo_code,omitempty" validate:"omitempty,max=20"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}
