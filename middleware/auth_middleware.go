package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/services"
	"study-sync/studysync/utils/token"
)

// AuthMiddleware requires a valid bearer token and puts the caller's
// identity on the context.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": token.ErrInvalidAuthFormat.Error()})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": token.ErrInvalidToken.Error()})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *token.JWTClaims) {
	c.Set("userID", claims.UserID.String())
	c.Set("email", claims.Email)
	c.Set("displayName", claims.DisplayName)
}
