package repository

import (
	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// RefreshTokenRepository определяет методы для работы с refresh-токенами
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByToken(token string) (*entity.RefreshToken, error)
	Revoke(token string) error
	RevokeAllForUser(userID uint) error
	// DeleteExpired удаляет истекшие и отозванные токены, возвращает число удалённых
	DeleteExpired() (int64, error)
}
