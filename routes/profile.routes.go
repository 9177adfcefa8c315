package routes

import (
	"github.com/gin-gonic/gin"

	"stayhaven/handlers"
	"stayhaven/utils"
)

type ProfileRouteHandler struct {
	profileHandler handlers.ProfileHandler
	bookingHandler handlers.BookingHandler
	tokens         *utils.TokenManager
}

func NewProfileRouteHandler(profileHandler handlers.ProfileHandler, bookingHandler handlers.BookingHandler, tokens *utils.TokenManager) ProfileRouteHandler {
	return ProfileRouteHandler{profileHandler, bookingHandler, tokens}
}

func (rc *ProfileRouteHandler) ProfileRoute(rg *gin.RouterGroup) {
	authorized := rg.Group("")
	authorized.Use(handlers.AuthMiddleware(rc.tokens))

	router := authorized.Group("/users")
	router.GET("/profile", rc.profileHandler.GetProfile)
	router.PUT("/profile", rc.profileHandler.UpdateProfile)

	bookings := authorized.Group("/bookings")
	bookings.POST("", rc.bookingHandler.CreateBooking)
}
