package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/domain"
	error2 "stayhaven/error"
	"stayhaven/services"
)

type PricingHandler struct {
	pricingService services.PricingService
	logger         *logrus.Logger
	Tracer         trace.Tracer
}

func NewPricingHandler(pricingService services.PricingService, logger *logrus.Logger, tr trace.Tracer) PricingHandler {
	return PricingHandler{pricingService, logger, tr}
}

// BulkPricing serves POST /api/properties/bulk-pricing. Every request entry
// yields exactly one result; per-property failures never fail the batch.
func (ph *PricingHandler) BulkPricing(c *gin.Context) {
	ctx, span := ph.Tracer.Start(c.Request.Context(), "PricingHandler.BulkPricing")
	defer span.End()

	var request domain.BulkPricingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, domain.BulkPricingResponse{Success: false, Error: "Invalid request body"})
		return
	}
	if len(request.Properties) == 0 {
		span.SetStatus(codes.Error, "empty property list")
		c.JSON(http.StatusBadRequest, domain.BulkPricingResponse{Success: false, Error: "No properties in request"})
		return
	}

	response := ph.pricingService.ResolveBulk(request.Properties, ctx)

	span.SetStatus(codes.Ok, "Bulk pricing resolved")
	c.JSON(http.StatusOK, response)
}

// SinglePricing serves GET /api/properties/:id/pricing?start&end for the
// checkout flow.
func (ph *PricingHandler) SinglePricing(c *gin.Context) {
	ctx, span := ph.Tracer.Start(c.Request.Context(), "PricingHandler.SinglePricing")
	defer span.End()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(c.Writer, map[string]string{"error": "Invalid property id"}, http.StatusBadRequest)
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		span.SetStatus(codes.Error, "missing date range")
		c.JSON(http.StatusBadRequest, domain.SinglePricingResponse{Success: false, Error: "start and end are required"})
		return
	}

	response := ph.pricingService.ResolveSingle(propertyID, start, end, ctx)
	if !response.Success {
		span.SetStatus(codes.Error, response.Error)
		ph.logger.WithFields(logrus.Fields{"path": "handlers/pricing", "property": propertyID}).
			Error("Single pricing failed: ", response.Error)
		c.JSON(http.StatusBadGateway, response)
		return
	}

	span.SetStatus(codes.Ok, "Single pricing resolved")
	c.JSON(http.StatusOK, response)
}
