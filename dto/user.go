package dto

import "farmertwin/model"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"max=100"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Readiness string `json:"readiness" binding:"omitempty,readiness"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

type LoginResponse struct {
	Message      string      `json:"message"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ProfileUploadResponse struct {
	Message          string `json:"message"`
	ProfileImagePath string `json:"profileImagePath"`
}
