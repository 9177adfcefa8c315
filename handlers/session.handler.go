package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"stayhaven/domain"
	"stayhaven/session"
)

var validateFieldsSession = validator.New()

type SessionHandler struct {
	store  session.Store
	logger *logrus.Logger
}

func NewSessionHandler(store session.Store, logger *logrus.Logger) SessionHandler {
	return SessionHandler{store, logger}
}

// CreateSession saves a search session and returns its generated id for
// inclusion in the results-page URL.
func (sh *SessionHandler) CreateSession(c *gin.Context) {
	var searchSession domain.SearchSession
	if err := c.ShouldBindJSON(&searchSession); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if err := validateFieldsSession.Struct(&searchSession); err != nil {
		fieldErrors := make(map[string]string)
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				fieldErrors[fieldError.Field()] = fieldError.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "fields": fieldErrors})
		return
	}

	id, err := sh.store.Save(c.Request.Context(), &searchSession)
	if err != nil {
		sh.logger.WithFields(logrus.Fields{"path": "handlers/session"}).Error("Error saving search session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save search session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// GetSession returns the stored session, or a null session for an unknown or
// expired id. A missing session is "no active search", not an error.
func (sh *SessionHandler) GetSession(c *gin.Context) {
	id := c.Param("id")

	searchSession, err := sh.store.Get(c.Request.Context(), id)
	if err != nil {
		sh.logger.WithFields(logrus.Fields{"path": "handlers/session"}).Error("Error reading search session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to read search session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": searchSession})
}
