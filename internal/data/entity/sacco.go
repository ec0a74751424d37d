package entity

// Sacco is a matatu operator (Savings and Credit Co-Operative).
// Vehicles, schedules and trips all belong to a sacco.
type Sacco struct {
	Base
	Name               string  `db:"name"`
	RegistrationNumber string  `db:"registration_number"`
	PhoneNumber        string  `db:"phone_number"`
	Email              string  `db:"email"`
	Address            *string `db:"address"`
	IsActive           bool    `db:"is_active"`
	Rating             float64 `db:"rating"`
	TotalReviews       int     `db:"total_reviews"`
}
