// Package middleware holds the gin middleware shared by both web apps.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	contextKeyRequestID = "request_id"
	maxRequestIDLen     = 64
)

// RequestID reuses a sane incoming X-Request-ID or generates a new one,
// echoes it on the response and stores it in the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
