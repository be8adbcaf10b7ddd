package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aijournal/aijournal/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	userIDHeader    = "X-User-ID"
	userIDKey       = "userID"
)

// RequestID tags every request with a uuid, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// ResolveUser reads the authenticated user ID from the gateway-set header.
// Authentication itself happens upstream; requests arriving without the
// header are rejected.
func ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(userIDHeader)
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "ログインしてください。",
			})
			return
		}
		c.Set(userIDKey, uint(id))
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
