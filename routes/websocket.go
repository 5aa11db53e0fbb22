package routes

import (
	"github.com/gin-gonic/gin"

	"study-sync/studysync/middleware"
	"study-sync/studysync/services"
)

func RegisterWebSocketRoutes(group *gin.RouterGroup, authService services.AuthServiceInterface, wsService services.WebSocketServiceInterface) {
	ws := group.Group("/ws")
	ws.Use(middleware.WebSocketAuthMiddleware(authService))
	{
		ws.GET("", wsService.HandleConnection)
	}
}
