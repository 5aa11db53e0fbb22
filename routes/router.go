package routes

import (
	"github.com/gin-gonic/gin"

	"study-sync/studysync/database"
	"study-sync/studysync/middleware"
	"study-sync/studysync/services"
)

type Services struct {
	Auth      services.AuthServiceInterface
	Spaces    services.SpaceServiceInterface
	Notes     services.NoteServiceInterface
	WebSocket services.WebSocketServiceInterface
}

// RegisterRoutes mounts the whole API under /api/v1. The websocket endpoint
// is only mounted when a websocket service is given.
func RegisterRoutes(router *gin.Engine, db *database.Database, svc Services) {
	api := router.Group("/api/v1")

	RegisterAuthRoutes(api, svc.Auth)
	RegisterHealthRoutes(api, db)
	if svc.WebSocket != nil {
		RegisterWebSocketRoutes(api, svc.Auth, svc.WebSocket)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	{
		RegisterSpaceRoutes(protected, svc.Spaces, svc.Notes)
		RegisterNoteRoutes(protected, svc.Notes)
	}
}
