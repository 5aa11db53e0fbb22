package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/services"
	"study-sync/studysync/utils/token"
)

// WebSocketAuthMiddleware accepts the token as a query parameter, since
// browsers cannot set headers on websocket upgrades, or as a bearer header.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": token.ErrInvalidToken.Error()})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}
