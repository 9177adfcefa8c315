package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/pms"
	"stayhaven/services"
)

// BookingClient is the slice of the property-management client used by the
// booking proxy.
type BookingClient interface {
	CreateBooking(ctx context.Context, booking pms.BookingRequest) (*pms.BookingConfirmation, error)
}

type BookingHandler struct {
	bookings    BookingClient
	userService services.UserService
	logger      *logrus.Logger
	Tracer      trace.Tracer
}

func NewBookingHandler(bookings BookingClient, userService services.UserService, logger *logrus.Logger, tr trace.Tracer) BookingHandler {
	return BookingHandler{bookings, userService, logger, tr}
}

type createBookingInput struct {
	PropertyID int     `json:"propertyId" binding:"required"`
	StartDate  string  `json:"start" binding:"required"`
	EndDate    string  `json:"end" binding:"required"`
	Amount     float64 `json:"amount"`
}

// CreateBooking proxies a booking to the property-management API. Upstream
// detail stays in the server log; the client gets a generic message and the
// status code.
func (bh *BookingHandler) CreateBooking(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	user, err := bh.userService.GetUserByID(userID, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unknown user"})
		return
	}

	confirmation, err := bh.bookings.CreateBooking(ctx, pms.BookingRequest{
		PropertyID: input.PropertyID,
		GuestID:    user.GuestID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Amount:     input.Amount,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bh.logger.WithFields(logrus.Fields{"path": "handlers/booking", "property": input.PropertyID}).
			Error("Error creating booking:", err)
		if errors.Is(err, pms.ErrUpstream) {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Booking service unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create booking"})
		return
	}

	span.SetStatus(codes.Ok, "Booking created")
	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": confirmation})
}
