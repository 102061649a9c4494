package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize(logger.Config{Level: "error"})
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	handler := NewHealthHandler(func() bool { return true })
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_NotHydrated(t *testing.T) {
	handler := NewHealthHandler(func() bool { return false })
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNotificationsHandler_DrainDeliversOnce(t *testing.T) {
	center := notify.NewCenter()
	center.Success("Welcome back, Ada!")
	center.Error("Your session has expired. Please log in again.")

	handler := NewNotificationsHandler(center)
	router := gin.New()
	router.GET("/notifications", handler.Drain)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/notifications", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome back, Ada!")
	assert.Contains(t, w.Body.String(), "session has expired")

	// Drained: the second read is empty
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/notifications", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
