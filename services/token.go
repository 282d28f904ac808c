package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmertwin/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the signed contents of access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Type   string `json:"type"`
}

// TokenService issues and validates HS256 tokens.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  TokenBlacklist
	now        func() time.Time
}

func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration, blacklist TokenBlacklist) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// SetClock replaces the time source; tests use it to move past expiry.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// GenerateToken issues an access token for userID.
func (s *TokenService) GenerateToken(userID string) (string, error) {
	return s.generate(userID, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken issues a refresh token for userID.
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   tokenType,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, issuer, expiry, type and revocation.
// Every failure wraps utils.ErrUnauthorized.
func (s *TokenService) ParseToken(ctx context.Context, tokenString, expectedType string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("authentication token is missing: %w", utils.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token has expired: %w", utils.ErrUnauthorized)
		}
		return nil, fmt.Errorf("invalid token: %w", utils.ErrUnauthorized)
	}

	if claims.Type != expectedType {
		return nil, fmt.Errorf("invalid token type: %w", utils.ErrUnauthorized)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("invalid token claims: %w", utils.ErrUnauthorized)
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("token has been revoked: %w", utils.ErrUnauthorized)
		}
	}

	return claims, nil
}

// Revoke blacklists the token until its natural expiry. Tokens that do not
// parse are ignored since they can never authenticate anyway.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
