package routes

import (
	"github.com/gin-gonic/gin"

	"stayhaven/handlers"
)

type SessionRouteHandler struct {
	sessionHandler handlers.SessionHandler
}

func NewSessionRouteHandler(sessionHandler handlers.SessionHandler) SessionRouteHandler {
	return SessionRouteHandler{sessionHandler}
}

func (rc *SessionRouteHandler) SessionRoute(rg *gin.RouterGroup) {
	router := rg.Group("/sessions")

	router.POST("", rc.sessionHandler.CreateSession)
	router.GET("/:id", rc.sessionHandler.GetSession)
}
