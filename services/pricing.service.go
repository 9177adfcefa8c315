package services

import (
	"context"

	"stayhaven/domain"
	"stayhaven/pms"
)

// RateSource is the slice of the property-management client the pricing
// service depends on.
type RateSource interface {
	NightlyRates(ctx context.Context, propertyID int, start, end string) ([]pms.NightlyRate, error)
}

// PricingService resolves pricing for one property or a batch of properties
// over a date range. Both call patterns share the same per-property
// resolution and error mapping so the two flows cannot drift apart.
type PricingService interface {
	ResolveBulk(requests []domain.PricingRequest, ctx context.Context) *domain.BulkPricingResponse
	ResolveSingle(propertyID int, start, end string, ctx context.Context) *domain.SinglePricingResponse
}
