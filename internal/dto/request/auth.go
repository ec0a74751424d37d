package request

type RegisterRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=3,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	PhoneNumber string  `json:"phone_number" validate:"required,kephone"`
	IDNumber    *string `json:"id_number,omitempty" validate:"omitempty,min=6,max=10"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
