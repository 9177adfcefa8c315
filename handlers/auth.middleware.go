package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhaven/utils"
)

// AuthMiddleware verifies the session cookie token and stores the user id
// and role on the request context for downstream handlers.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Missing session token"})
			return
		}

		userID, role, err := tokens.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Invalid session token"})
			return
		}

		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}
