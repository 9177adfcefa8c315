package services

import (
	"context"

	"stayhaven/domain"
)

// SearchFilters mirrors the query surface of the property search endpoint.
// Zero values mean the dimension is not filtered.
type SearchFilters struct {
	IDs              []int
	AvailabilityFrom string
	AvailabilityTo   string
	GuestsFrom       int
	GuestsTo         int
	RoomTypes        []string
	BedroomRanges    []string
	BathroomRanges   []string
	GuestRanges      []string
	PriceRange       *[2]float64
}

type PropertyService interface {
	SearchProperties(filters SearchFilters, ctx context.Context) ([]*domain.Property, error)
	GetAllProperties(ctx context.Context) ([]*domain.Property, error)
	GetPropertyByID(propertyID int, ctx context.Context) (*domain.Property, error)
	GetLocations(ctx context.Context) ([]string, error)
}
