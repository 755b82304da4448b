package repository

import (
	"context"
	"fmt"
	"time"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// TokenRepository handles database operations for issued auth tokens
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	FindByID(ctx context.Context, id string) (*models.AuthToken, error)
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create token: %w", translateError(err))
	}
	return nil
}

func (r *tokenRepository) FindByID(ctx context.Context, id string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&token).Error; err != nil {
		return nil, translateError(err)
	}
	return &token, nil
}

// Revoke marks a token as revoked; revoking twice is not an error.
func (r *tokenRepository) Revoke(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.AuthToken{}).Where("id = ?", id).Update("revoked", true).Error
}

// DeleteExpired removes tokens that expired before the given time.
func (r *tokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.AuthToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
