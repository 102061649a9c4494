package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_EnforcesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	router := gin.New()
	router.GET("/ping", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// The burst passes, the next request from the same IP is limited
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", http.NoBody))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	rl.Stop()
	rl.Stop()

	// Only the cleanup loop is gone; limiting still works
	assert.True(t, rl.getVisitor("203.0.113.7").Allow())
	assert.False(t, rl.getVisitor("203.0.113.7").Allow())
}
