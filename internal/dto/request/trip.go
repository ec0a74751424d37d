package request

// SearchTripsRequest carries the trip search query parameters. Origin and
// destination resolve to a route; date defaults to today when empty.
type SearchTripsRequest struct {
	Origin      string `json:"origin" validate:"required,min=2,max=100"`
	Destination string `json:"destination" validate:"required,min=2,max=100"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Seats       int    `json:"seats" validate:"omitempty,min=1,max=5"`
}
