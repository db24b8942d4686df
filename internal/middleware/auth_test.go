package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGenerateToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken("test-user-id", "test@example.com", 1*time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetJWTSecret("test-secret")

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{
			name:           "Missing authorization header",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid token format",
			token:          "InvalidToken",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage bearer token",
			token:          "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			c.Request = req

			JWTAuth()(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestJWTAuthWithValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetJWTSecret("test-secret")

	token, err := GenerateToken("user-1", "user@example.com", 1*time.Hour)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthWithExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetJWTSecret("test-secret")

	token, err := GenerateToken("user-1", "user@example.com", -1*time.Hour)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
