package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stayhaven/domain"
	"stayhaven/services"
)

type ProfileHandler struct {
	userService services.UserService
	logger      *logrus.Logger
}

func NewProfileHandler(userService services.UserService, logger *logrus.Logger) ProfileHandler {
	return ProfileHandler{userService, logger}
}

func (ph *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := ph.userService.GetUserByID(userID, c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}

// UpdateProfile accepts partial updates; missing fields are left alone. The
// piggybacked guest-record sync happens inside the service and never fails
// the update.
func (ph *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	user, err := ph.userService.UpdateProfile(userID, &update, c.Request.Context())
	if err != nil {
		ph.logger.WithFields(logrus.Fields{"path": "handlers/profile"}).Error("Error updating profile:", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}
