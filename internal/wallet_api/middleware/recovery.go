package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/domain/shared"
)

// InternalErrorMessage is the envelope error returned for a recovered panic
const InternalErrorMessage = "An internal server error occurred"

// Recovery catches panics, logs them with the stack trace and answers with a failure envelope
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"correlation_id", GetCorrelationID(c),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, shared.Envelope[any]{
					Success: false,
					Error:   InternalErrorMessage,
				})
			}
		}()

		c.Next()
	}
}
