package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"study-sync/studysync/testutils"
	"study-sync/studysync/utils/token"
)

func identityRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handler)
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":      c.GetString("userID"),
			"email":        c.GetString("email"),
			"display_name": c.GetString("displayName"),
		})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	auth := new(testutils.MockAuthService)
	auth.On("ValidateToken", "good").Return(&token.JWTClaims{UserID: userID, Email: "ada@example.com", DisplayName: "Ada"}, nil)
	auth.On("ValidateToken", "bad").Return(nil, errors.New("expired"))
	router := identityRouter(AuthMiddleware(auth))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Wrong scheme", "Basic good", http.StatusUnauthorized},
		{"Invalid token", "Bearer bad", http.StatusUnauthorized},
		{"Valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"`+userID.String()+`","email":"ada@example.com","display_name":"Ada"}`, w.Body.String())
			}
		})
	}
}

func TestWebSocketAuthMiddleware_QueryToken(t *testing.T) {
	userID := uuid.New()
	auth := new(testutils.MockAuthService)
	auth.On("ValidateToken", "good").Return(&token.JWTClaims{UserID: userID}, nil)
	router := identityRouter(WebSocketAuthMiddleware(auth))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token=good", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware("http://localhost:3000, http://example.com"))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOriginChecker(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	allowAll := OriginChecker("*")
	assert.True(t, allowAll(request("https://evil.example")))

	check := OriginChecker("https://app.example, http://localhost:3000")
	assert.True(t, check(request("https://app.example")))
	assert.True(t, check(request("http://localhost:3000")))
	assert.True(t, check(request("")))
	assert.False(t, check(request("https://evil.example")))
}
