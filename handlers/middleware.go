package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resumify/backend/logger"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request_id"

// RequestID attaches a request id to the context, the response header and
// a request-scoped logger
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		l := logger.Logger.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RequestLogger emits one structured log line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		event := logger.Ctx(c.Request.Context()).Info()
		if status >= 500 {
			event = logger.Ctx(c.Request.Context()).Error()
		} else if status >= 400 {
			event = logger.Ctx(c.Request.Context()).Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("uid", currentUID(c)).
			Msg("request")
	}
}
