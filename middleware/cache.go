package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControlMiddleware marks responses as publicly cacheable for maxAge.
// Uploaded images get unique names, so they never change under a URL.
func CacheControlMiddleware(maxAge time.Duration) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
