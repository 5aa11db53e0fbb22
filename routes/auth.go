package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

type signUpRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

func RegisterAuthRoutes(group *gin.RouterGroup, authService services.AuthServiceInterface) {
	auth := group.Group("/auth")
	{
		auth.POST("/signup", func(c *gin.Context) { SignUp(c, authService) })
		auth.POST("/login", func(c *gin.Context) { Login(c, authService) })
		auth.POST("/logout", Logout)
	}
}

func SignUp(c *gin.Context, authService services.AuthServiceInterface) {
	var request signUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := authService.SignUp(c.Request.Context(), request.Email, request.Password, request.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := authService.IssueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: user.Identity()})
}

func Login(c *gin.Context, authService services.AuthServiceInterface) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user.Identity()})
}

// Logout is acknowledged only. Tokens are stateless and the client discards its copy.
func Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
