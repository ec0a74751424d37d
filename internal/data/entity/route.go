package entity

type Route struct {
	Base
	Name              string  `db:"name"`
	Origin            string  `db:"origin"`
	Destination       string  `db:"destination"`
	DistanceKM        float64 `db:"distance_km"`
	EstimatedDuration int     `db:"estimated_duration"` // minutes
	BaseFare          float64 `db:"base_fare"`
	IsActive          bool    `db:"is_active"`
}
