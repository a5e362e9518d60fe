package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"inventra/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// The request context carries the trace set by Trace and, after Auth,
// the user, so both appear as fields.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"violations", len(c.Errors),
		)
	}
}
