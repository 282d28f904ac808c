package handler

import (
	"errors"
	"io"

	"farmertwin/dto"
	"farmertwin/middleware"
	"farmertwin/model"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, users *usecase.UserService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "register")
		utils.BadRequest(c, "Email and password are required")
		return
	}

	user, err := users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		utils.TrackAuthAttempt("failure", "register")
		utils.HandleError(c, err)
		return
	}

	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, dto.UserResponse{
		Message: "Registration successful",
		User:    user,
	})
}

func LoginHandler(c *gin.Context, users *usecase.UserService) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "validation")
		if req.Email != "" && req.Password != "" && req.Readiness != "" {
			utils.BadRequest(c, "readiness must be one of READY, CAUTION, OBSERVE")
			return
		}
		utils.BadRequest(c, "Email and password are required")
		return
	}

	user, pair, err := users.Login(c.Request.Context(), req.Email, req.Password, req.Readiness)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Success(c, dto.LoginResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

// MeHandler returns the account resolved by AuthMiddleware.
func MeHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	utils.Success(c, dto.UserResponse{User: user})
}

func RefreshHandler(c *gin.Context, users *usecase.UserService) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.BadRequest(c, "refreshToken is required")
		return
	}

	pair, err := users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Success(c, dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LogoutHandler revokes the bearer token and, when sent, the refresh token.
// The body is optional.
func LogoutHandler(c *gin.Context, users *usecase.UserService) {
	claims, ok := currentClaims(c)
	if !ok {
		utils.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request")
		return
	}

	if err := users.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.TrackAuthAttempt("success", "logout")
	utils.Success(c, utils.Response{Message: "Logged out successfully"})
}

func currentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

func currentClaims(c *gin.Context) (*services.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok && claims != nil
}
