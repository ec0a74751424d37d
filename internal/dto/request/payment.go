package request

type InitiatePaymentRequest struct {
	BookingID   string  `json:"booking_id" validate:"required,uuid4"`
	Method      string  `json:"method" validate:"required,oneof=mpesa cash"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,kephone"`
}
