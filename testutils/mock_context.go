package testutils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetTestGinContext(w http.ResponseWriter, req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

// WithUser puts an authenticated identity on the context the way the auth
// middleware does.
func WithUser(c *gin.Context, userID, email string) *gin.Context {
	c.Set("userID", userID)
	c.Set("email", email)
	return c
}
