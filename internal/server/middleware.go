package server

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware reuses the caller's request id or generates one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logf(c, "%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// recoveryMiddleware turns handler panics into a generic 500 when nothing has
// been written yet
func recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logf(c, "panic: %v\n%s", err, debug.Stack())
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}
		c.Abort()
	})
}

// requestID returns the id assigned by requestIDMiddleware
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// logf logs with the request id of c
func logf(c *gin.Context, format string, args ...any) {
	log.Printf("request_id=%s %s", requestID(c), fmt.Sprintf(format, args...))
}
