package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// SoleSurvivorRepository определяет методы для работы с пиками sole survivor
type SoleSurvivorRepository interface {
	// GetActive возвращает активный пик пользователя в сезоне (ErrNotFound, если его нет)
	GetActive(userID, seasonID uint) (*entity.SoleSurvivorPick, error)
	// GetActiveBySeason возвращает активные пики всех пользователей сезона
	GetActiveBySeason(seasonID uint) ([]entity.SoleSurvivorPick, error)
	// GetHistory возвращает все пики пользователя в сезоне, включая заменённые
	GetHistory(userID, seasonID uint) ([]entity.SoleSurvivorPick, error)
	// Replace деактивирует текущий активный пик (если есть) и создаёт новый —
	// одной транзакцией
	Replace(pick *entity.SoleSurvivorPick) error
	// IncrementEpisodesHeld увеличивает счётчик эпизодов для активного пика
	// пользователя (внутри переданной транзакции). ErrNoActivePick, если
	// активного пика нет.
	IncrementEpisodesHeld(tx *gorm.DB, userID, seasonID uint) error
}
