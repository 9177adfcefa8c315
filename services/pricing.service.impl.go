package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/domain"
	"stayhaven/pms"
)

// maxConcurrentRateLookups bounds the fan-out against the property-management
// API during a bulk resolution.
const maxConcurrentRateLookups = 8

type PricingServiceImpl struct {
	rates  RateSource
	logger *logrus.Logger
	Tracer trace.Tracer
}

func NewPricingServiceImpl(rates RateSource, logger *logrus.Logger, tr trace.Tracer) PricingService {
	return &PricingServiceImpl{rates: rates, logger: logger, Tracer: tr}
}

func (s *PricingServiceImpl) ResolveBulk(requests []domain.PricingRequest, ctx context.Context) *domain.BulkPricingResponse {
	ctx, span := s.Tracer.Start(ctx, "PricingService.ResolveBulk")
	defer span.End()

	results := make([]domain.PricingResult, len(requests))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentRateLookups)
	for i, request := range requests {
		wg.Add(1)
		go func(i int, request domain.PricingRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.resolveOne(ctx, request)
		}(i, request)
	}
	wg.Wait()

	response := &domain.BulkPricingResponse{
		Success: true,
		Results: results,
	}
	for _, result := range results {
		if result.Success {
			response.Summary.SuccessfulProperties++
		}
	}
	span.SetStatus(codes.Ok, "Bulk pricing resolved")
	return response
}

func (s *PricingServiceImpl) ResolveSingle(propertyID int, start, end string, ctx context.Context) *domain.SinglePricingResponse {
	ctx, span := s.Tracer.Start(ctx, "PricingService.ResolveSingle")
	defer span.End()

	result := s.resolveOne(ctx, domain.PricingRequest{PropertyID: propertyID, StartDate: start, EndDate: end})
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
		return &domain.SinglePricingResponse{Success: false, Error: result.Error}
	}
	return &domain.SinglePricingResponse{Success: true, Pricing: result.Pricing}
}

// resolveOne is the single per-property resolution path shared by the bulk
// and single endpoints. A failure here fails that property only.
func (s *PricingServiceImpl) resolveOne(ctx context.Context, request domain.PricingRequest) domain.PricingResult {
	result := domain.PricingResult{PropertyID: domain.NewFlexID(request.PropertyID)}

	rates, err := s.rates.NightlyRates(ctx, request.PropertyID, request.StartDate, request.EndDate)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"path": "services/pricing", "property": request.PropertyID}).
			Error("Error fetching nightly rates:", err)
		result.Error = "Failed to fetch pricing"
		return result
	}

	summary, err := pms.BuildSummary(rates, request.StartDate, request.EndDate)
	if err != nil {
		result.Error = "Invalid date range"
		return result
	}

	result.Success = true
	result.Pricing = &domain.PricingDetail{Summary: summary}
	return result
}
