package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"farmertwin/logging"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error(c.Request.Context(), "panic recovered",
					"error", fmt.Sprint(err),
					"path", c.Request.URL.Path,
					"request_id", c.GetString(ContextRequestID),
					"stack", string(debug.Stack()),
				)
				utils.TrackError("panic", "recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					&utils.Response{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
