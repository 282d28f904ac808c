package middleware

import (
	"errors"
	"strings"

	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUser   = "user"
	ContextClaims = "claims"
)

// AuthMiddleware requires a valid access token and stores the account in
// the request context under ContextUser and the token claims under
// ContextClaims.
func AuthMiddleware(users *usecase.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "access")
			utils.AbortUnauthorized(c, "Missing or invalid token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		user, claims, err := users.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			utils.TrackAuthAttempt("failure", "access")
			if errors.Is(err, utils.ErrUnauthorized) {
				utils.AbortUnauthorized(c, utils.PublicMessage(err))
				return
			}
			c.Abort()
			utils.HandleError(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextClaims, claims)
		c.Set("user_id", user.UserID)

		c.Next()
	}
}
