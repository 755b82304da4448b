package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/http-api/middleware/auth"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an auth token. The jti doubles as the auth_tokens primary key.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCache is a fast deny-list in front of the auth_tokens table.
type TokenCache interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *Claims) error
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cache     TokenCache
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService builds the token service. cache may be nil.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	cache TokenCache,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cache:     cache,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		now:       time.Now,
	}
}

// Login checks email and password and issues a new token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// same cost as a wrong password
			auth.BurnCompare(password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

func (s *authService) issueToken(ctx context.Context, user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	record := &models.AuthToken{
		ID:        claims.ID,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", err
	}
	return signed, nil
}

// Logout revokes the token the claims came from.
func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	if err := s.tokenRepo.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	if s.cache != nil && claims.ExpiresAt != nil {
		if err := s.cache.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			logging.Warn().Err(err).Str("jti", claims.ID).Msg("Failed to cache revoked token")
		}
	}
	return nil
}

// ValidateToken verifies the signature and expiry, then checks revocation.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	if s.cache != nil {
		revoked, err := s.cache.IsRevoked(ctx, claims.ID)
		if err != nil {
			logging.Warn().Err(err).Msg("Token cache unavailable, falling back to database")
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}

	record, err := s.tokenRepo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if record.Revoked || record.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
