package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Logger writes one structured line per request.
func Logger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			logger.Error("request", kv...)
		case status >= 400:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}
	}
}
