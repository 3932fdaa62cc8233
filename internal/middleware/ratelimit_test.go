package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vistamar/estate_ledger_app/internal/middleware"
)

func newLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiterInstance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  limit,
	})

	router := gin.New()
	router.Use(middleware.RateLimit(limiterInstance))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	router := newLimitedRouter(2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	router := newLimitedRouter(1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
