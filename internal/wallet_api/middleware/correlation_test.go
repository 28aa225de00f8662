package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wallet-ledger/internal/domain/shared"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("GeneratesCorrelationIDIfNotProvided", func(t *testing.T) {
		router := gin.New()
		router.Use(CorrelationID())

		var ginID, requestID string
		router.GET("/test", func(c *gin.Context) {
			ginID = c.GetString(CorrelationIDKey)
			requestID = shared.CorrelationIDFrom(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		headerID := rr.Header().Get(CorrelationIDHeader)
		_, err := uuid.Parse(headerID)
		assert.NoError(t, err, "generated correlation id should be a valid UUID")
		assert.Equal(t, headerID, ginID)
		assert.Equal(t, headerID, requestID)
	})

	t.Run("UsesCorrelationIDIfProvided", func(t *testing.T) {
		router := gin.New()
		router.Use(CorrelationID())

		var requestID string
		router.GET("/test", func(c *gin.Context) {
			requestID = shared.CorrelationIDFrom(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CorrelationIDHeader, "mobile-123")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "mobile-123", rr.Header().Get(CorrelationIDHeader))
		assert.Equal(t, "mobile-123", requestID)
	})
}

func TestGetCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnsIDFromContextIfExists", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CorrelationIDKey, "corr-1")
		assert.Equal(t, "corr-1", GetCorrelationID(c))
	})

	t.Run("ReturnsEmptyStringIfIDInContextIsNotString", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CorrelationIDKey, 12345)
		assert.Empty(t, GetCorrelationID(c))
	})
}
