package middleware

import (
	"time"

	"rental-admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request after the handler chain ran.
func RequestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("remote_addr", c.ClientIP()),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			log.Error("HTTP request", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}
