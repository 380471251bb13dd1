package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует repository.RefreshTokenRepository
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый репозиторий refresh-токенов
func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// Create создает новый refresh-токен
func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByToken возвращает refresh-токен по значению
func (r *RefreshTokenRepo) GetByToken(token string) (*entity.RefreshToken, error) {
	var refreshToken entity.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &refreshToken, nil
}

// Revoke отзывает токен
func (r *RefreshTokenRepo) Revoke(token string) error {
	return r.db.Model(&entity.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).
		Error
}

// RevokeAllForUser отзывает все токены пользователя
func (r *RefreshTokenRepo) RevokeAllForUser(userID uint) error {
	return r.db.Model(&entity.RefreshToken{}).
		Where("user_id = ? AND revoked = false", userID).
		Update("revoked", true).
		Error
}

// DeleteExpired удаляет истекшие и отозванные токены
func (r *RefreshTokenRepo) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ? OR revoked = true", time.Now()).
		Delete(&entity.RefreshToken{})
	return result.RowsAffected, result.Error
}
