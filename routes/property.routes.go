package routes

import (
	"github.com/gin-gonic/gin"

	"stayhaven/handlers"
)

type PropertyRouteHandler struct {
	propertyHandler handlers.PropertyHandler
	pricingHandler  handlers.PricingHandler
}

func NewPropertyRouteHandler(propertyHandler handlers.PropertyHandler, pricingHandler handlers.PricingHandler) PropertyRouteHandler {
	return PropertyRouteHandler{propertyHandler, pricingHandler}
}

func (rc *PropertyRouteHandler) PropertyRoute(rg *gin.RouterGroup) {
	router := rg.Group("/properties")

	router.GET("/search", rc.propertyHandler.SearchProperties)
	router.GET("/locations", rc.propertyHandler.GetLocations)
	router.GET("/cache", rc.propertyHandler.WarmCache)
	router.POST("/bulk-pricing", rc.pricingHandler.BulkPricing)
	router.GET("/:id/pricing", rc.pricingHandler.SinglePricing)
}
