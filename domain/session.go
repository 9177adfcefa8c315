package domain

import "time"

// SearchSession records one submitted search. It is immutable once saved and
// referenced by id from navigation URLs; a missing or expired session means
// "no active search", never an error.
type SearchSession struct {
	ID           string    `json:"id"`
	Location     string    `json:"location" validate:"required"`
	CheckInDate  string    `json:"checkInDate" validate:"required"`
	CheckOutDate string    `json:"checkOutDate" validate:"required"`
	Guests       int       `json:"guests" validate:"gte=1"`
	PropertyIDs  []int     `json:"propertyIds"`
	CreatedAt    time.Time `json:"createdAt"`
}
