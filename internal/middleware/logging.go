package middleware

import (
	"time"

	"realestate-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware tags every request with an id and writes one access line,
// including where reads were served from when the service recorded it.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		source := c.GetString("data_source")
		if source == "" {
			source = "-"
		}
		logger.GlobalLogger.Printf("%s %s %d %v request_id=%s source=%s cache_hit=%t",
			method, path, status, latency, requestID, source, c.GetBool("cache_hit"))
	}
}
