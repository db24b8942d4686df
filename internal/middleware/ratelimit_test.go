package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(2, 2) // 2 requests per second, burst of 2

	router := gin.New()
	router.Use(RateLimit(rl))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// First two requests should succeed
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Third request should be rate limited
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterSeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	a := rl.getLimiter("ip:10.0.0.1")
	b := rl.getLimiter("ip:10.0.0.2")

	assert.NotSame(t, a, b)
	assert.Same(t, a, rl.getLimiter("ip:10.0.0.1"))
}
