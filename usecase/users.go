package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"farmertwin/logging"
	"farmertwin/model"
	"farmertwin/repository"
	"farmertwin/services"
	"farmertwin/utils"

	"github.com/google/uuid"
)

// MaxEmailLength matches the width of the credential store's email column.
const MaxEmailLength = 120

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	UsersRepo repository.UsersRepo
	Tokens    *services.TokenService
	Log       logging.Logger
	now       func() time.Time
}

func NewUserService(repo repository.UsersRepo, tokens *services.TokenService, log logging.Logger) *UserService {
	return &UserService{
		UsersRepo: repo,
		Tokens:    tokens,
		Log:       log,
		now:       time.Now,
	}
}

func GenerateUserID() string {
	return uuid.NewString()
}

// Register creates an active account. The email is trimmed and lower-cased
// before the uniqueness check.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", utils.ErrValidation)
	}
	if len(email) > MaxEmailLength {
		return nil, fmt.Errorf("email address too long: %w", utils.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", utils.ErrValidation)
	}

	if _, err := s.UsersRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", utils.ErrConflict)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		UserID:       GenerateUserID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
		Status:       model.StatusActive,
	}

	if err := s.UsersRepo.AddUser(ctx, user); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", utils.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Log.Info(ctx, "user registered", "user_id", user.UserID)
	return user, nil
}

// Login checks the credentials, records the login and issues a token pair.
// Unknown email, wrong password and suspended accounts all fail the same way.
func (s *UserService) Login(ctx context.Context, email, password, readiness string) (*model.User, *TokenPair, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("email and password are required: %w", utils.ErrValidation)
	}
	if readiness != "" && !utils.IsReadiness(readiness) {
		return nil, nil, fmt.Errorf("invalid readiness %q: %w", readiness, utils.ErrValidation)
	}

	invalid := fmt.Errorf("invalid email or password: %w", utils.ErrUnauthorized)

	user, err := s.UsersRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.TrackAuthAttempt("failure", "login")
			return nil, nil, invalid
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !services.ComparePasswords(user.PasswordHash, password) || !user.IsActive() {
		utils.TrackAuthAttempt("failure", "login")
		return nil, nil, invalid
	}

	now := s.now().UTC()
	var readinessPtr *string
	if readiness != "" {
		readinessPtr = &readiness
	}
	if err := s.UsersRepo.RecordLogin(ctx, user.UserID, now, readinessPtr); err != nil {
		return nil, nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now
	if readinessPtr != nil {
		user.LastReadiness = readinessPtr
	}

	pair, err := s.issue(user.UserID)
	if err != nil {
		return nil, nil, err
	}

	utils.TrackAuthAttempt("success", "login")
	return user, pair, nil
}

// Authenticate resolves an access token to its user. A token whose user no
// longer exists is unauthorized, not not-found.
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, *services.Claims, error) {
	claims, err := s.Tokens.ParseToken(ctx, token, services.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.UsersRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, fmt.Errorf("user not found: %w", utils.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive() {
		return nil, nil, fmt.Errorf("account is not active: %w", utils.ErrUnauthorized)
	}

	return user, claims, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old
// refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refreshToken is required: %w", utils.ErrValidation)
	}

	claims, err := s.Tokens.ParseToken(ctx, refreshToken, services.TokenTypeRefresh)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, err
	}

	user, err := s.UsersRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", utils.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("account is not active: %w", utils.ErrUnauthorized)
	}

	if err := s.Tokens.Revoke(ctx, claims); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	pair, err := s.issue(user.UserID)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "refresh")
	return pair, nil
}

// Logout revokes the access token and, when it parses and belongs to the
// same user, the refresh token.
func (s *UserService) Logout(ctx context.Context, access *services.Claims, refreshToken string) error {
	if err := s.Tokens.Revoke(ctx, access); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.Tokens.ParseToken(ctx, refreshToken, services.TokenTypeRefresh)
	if err != nil {
		// Already invalid.
		return nil
	}
	if claims.UserID != access.UserID {
		return fmt.Errorf("refresh token belongs to another user: %w", utils.ErrUnauthorized)
	}
	if err := s.Tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// SetProfileImage stores the new profile image path on the user.
func (s *UserService) SetProfileImage(ctx context.Context, userID, path string) error {
	if err := s.UsersRepo.UpdateProfileImage(ctx, userID, path); err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	return nil
}

func (s *UserService) issue(userID string) (*TokenPair, error) {
	access, err := s.Tokens.GenerateToken(userID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		return nil, err
	}
	refresh, err := s.Tokens.GenerateRefreshToken(userID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
