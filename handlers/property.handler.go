package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/cache"
	"stayhaven/domain"
	error2 "stayhaven/error"
	"stayhaven/services"
)

type PropertyHandler struct {
	propertyService services.PropertyService
	propertyCache   *cache.PropertyCache
	logger          *logrus.Logger
	Tracer          trace.Tracer
}

func NewPropertyHandler(propertyService services.PropertyService, propertyCache *cache.PropertyCache, logger *logrus.Logger, tr trace.Tracer) PropertyHandler {
	return PropertyHandler{propertyService, propertyCache, logger, tr}
}

// SearchProperties serves GET /api/properties/search. The response never
// carries pricing: every property goes out with price 0 and
// pricingLoading true until the bulk pricing flow resolves it.
func (ph *PropertyHandler) SearchProperties(c *gin.Context) {
	ctx, span := ph.Tracer.Start(c.Request.Context(), "PropertyHandler.SearchProperties")
	defer span.End()

	filters, err := parseSearchFilters(c)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, domain.SearchResponse{Success: false, Error: err.Error()})
		return
	}

	properties, err := ph.propertyService.SearchProperties(filters, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		ph.logger.WithFields(logrus.Fields{"path": "handlers/property"}).Error("Error searching properties:", err)
		c.JSON(http.StatusInternalServerError, domain.SearchResponse{Success: false, Error: "Failed to search properties"})
		return
	}

	summaries := make([]*domain.PropertySummary, 0, len(properties))
	for _, property := range properties {
		summaries = append(summaries, property.Summary())
	}

	span.SetStatus(codes.Ok, "Property search successful")
	c.JSON(http.StatusOK, domain.SearchResponse{Success: true, Data: domain.SearchData{Properties: summaries}})
}

func parseSearchFilters(c *gin.Context) (services.SearchFilters, error) {
	var filters services.SearchFilters

	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return filters, err
			}
			filters.IDs = append(filters.IDs, id)
		}
	}

	filters.AvailabilityFrom = c.Query("availabilityFrom")
	filters.AvailabilityTo = c.Query("availabilityTo")

	if raw := c.Query("guestsFrom"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil {
			return filters, err
		}
		filters.GuestsFrom = guests
	}
	if raw := c.Query("guestsTo"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil {
			return filters, err
		}
		filters.GuestsTo = guests
	}

	filters.RoomTypes = splitParam(c.Query("roomTypes"))
	filters.BedroomRanges = splitParam(c.Query("bedroomRanges"))
	filters.BathroomRanges = splitParam(c.Query("bathroomRanges"))
	filters.GuestRanges = splitParam(c.Query("guestRanges"))

	if raw := c.Query("priceRange"); raw != "" {
		var priceRange [2]float64
		if err := json.Unmarshal([]byte(raw), &priceRange); err != nil {
			return filters, err
		}
		filters.PriceRange = &priceRange
	}

	return filters, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

func (ph *PropertyHandler) GetLocations(c *gin.Context) {
	ctx, span := ph.Tracer.Start(c.Request.Context(), "PropertyHandler.GetLocations")
	defer span.End()

	locations, err := ph.propertyService.GetLocations(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(c.Writer, map[string]string{"error": "Failed to load locations"}, http.StatusInternalServerError)
		return
	}
	if locations == nil {
		locations = []string{}
	}

	span.SetStatus(codes.Ok, "Locations loaded")
	c.JSON(http.StatusOK, gin.H{"success": true, "locations": locations})
}

// WarmCache serves GET /api/properties/cache: loads the full listing set and
// stores it in Redis so the first search render has warm data behind it.
func (ph *PropertyHandler) WarmCache(c *gin.Context) {
	ctx, span := ph.Tracer.Start(c.Request.Context(), "PropertyHandler.WarmCache")
	defer span.End()

	properties, err := ph.propertyService.GetAllProperties(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(c.Writer, map[string]string{"error": "Failed to warm cache"}, http.StatusInternalServerError)
		return
	}

	if err := ph.propertyCache.PostAll(properties); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(c.Writer, map[string]string{"error": "Failed to warm cache"}, http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "Cache warmed")
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(properties)})
}
