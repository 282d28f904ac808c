package middleware

import (
	"fmt"
	"net/http"

	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter rejects bodies larger than maxSize. Bodies without a
// declared length are cut off at maxSize by the reader.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &utils.Response{
				Error: fmt.Sprintf("request body exceeds %d bytes", maxSize),
			})
			return
		}

		var w http.ResponseWriter = c.Writer
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, maxSize)

		c.Next()
	}
}
