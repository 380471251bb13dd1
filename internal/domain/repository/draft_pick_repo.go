package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// DraftPickRepository определяет методы для работы с пиками драфта
type DraftPickRepository interface {
	// GetActive возвращает активные пики пользователя в сезоне, отсортированные по слоту
	GetActive(userID, seasonID uint) ([]entity.DraftPick, error)
	// GetActiveBySeason возвращает все активные пики сезона (для подсчёта очков эпизода)
	GetActiveBySeason(seasonID uint) ([]entity.DraftPick, error)
	// GetHistory возвращает все пики пользователя в сезоне, включая заменённые
	GetHistory(userID, seasonID uint) ([]entity.DraftPick, error)
	// Deactivate помечает пики неактивными с отметкой времени замены
	// (внутри переданной транзакции)
	Deactivate(tx *gorm.DB, pickIDs []uint, replacedAt time.Time) error
	// CreateBatch создаёт новые пики (внутри переданной транзакции)
	CreateBatch(tx *gorm.DB, picks []entity.DraftPick) error
}
