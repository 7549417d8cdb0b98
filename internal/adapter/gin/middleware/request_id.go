package middleware

import (
	"github.com/gin-gonic/gin"

	"user-admin/pkg/logger"
)

// maxRequestIDLen bounds request IDs accepted from clients.
const maxRequestIDLen = 64

// RequestID adds a request ID to the request context and echoes it in the
// response. An ID sent by the client is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(logger.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = logger.NewRequestID()
		}

		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Header(logger.RequestIDHeader, requestID)
		c.Next()
	}
}
