package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// requestLogger assigns each request an id and logs it once it completes
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			requestIDKey: id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request failed")
			return
		}
		entry.Info("request")
	}
}

// bodyLimit caps request bodies at n bytes; n <= 0 disables the cap
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// corsAllowAll lets any origin call the API
func corsAllowAll() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders(RequestIDHeader)
	corsConfig.AddExposeHeaders(RequestIDHeader, "Content-Length")
	return cors.New(corsConfig)
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
