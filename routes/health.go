package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/database"
	"study-sync/studysync/models"
)

// RegisterHealthRoutes reports database reachability and the outbox backlog.
func RegisterHealthRoutes(group *gin.RouterGroup, db *database.Database) {
	group.GET("/health", func(c *gin.Context) {
		var pending int64
		err := db.DB.WithContext(c.Request.Context()).
			Model(&models.Event{}).
			Where("dispatched = ?", false).
			Count(&pending).Error
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"pending_events": pending,
			"time":           db.Now(),
		})
	})
}
