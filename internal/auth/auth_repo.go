package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"gorm.io/gorm"
)

// AuthRepository stores refresh tokens. User records go through
// user.UserRepository.
type AuthRepository interface {
	SaveRefreshToken(ctx context.Context, token *user.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenString string) (*user.RefreshToken, error)
	InvalidateRefreshToken(ctx context.Context, userID uint, tokenString string) error
	InvalidateAllRefreshTokensForUser(ctx context.Context, userID uint) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) SaveRefreshToken(ctx context.Context, token *user.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetRefreshToken returns only live tokens; (nil, nil) otherwise.
func (r *authRepository) GetRefreshToken(ctx context.Context, tokenString string) (*user.RefreshToken, error) {
	var rt user.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ? AND revoked = ?", tokenString, time.Now(), false).
		First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *authRepository) InvalidateRefreshToken(ctx context.Context, userID uint, tokenString string) error {
	return r.db.WithContext(ctx).Model(&user.RefreshToken{}).
		Where("token = ? AND user_id = ?", tokenString, userID).
		Update("revoked", true).Error
}

func (r *authRepository) InvalidateAllRefreshTokensForUser(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Model(&user.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("failed to invalidate all refresh tokens: %w", result.Error)
	}
	return nil
}
