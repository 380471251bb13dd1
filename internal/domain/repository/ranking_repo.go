package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// RankingRepository определяет методы для работы с рейтингами предпочтений
type RankingRepository interface {
	// GetByUserSeason возвращает записи рейтинга пользователя, отсортированные по позиции
	GetByUserSeason(userID, seasonID uint) ([]entity.RankingEntry, error)
	// ReplaceSet атомарно заменяет весь рейтинг пользователя в сезоне внутри
	// переданной транзакции. Вызывающая сторона обязана держать advisory lock
	// (user, season) — см. LockUserSeason.
	ReplaceSet(tx *gorm.DB, userID, seasonID uint, entries []entity.RankingEntry) error
	// MarkSubmitted проставляет отметку о явной отправке рейтинга (только аудит)
	MarkSubmitted(userID, seasonID uint) error
	// UserIDsWithRanking возвращает ID всех пользователей, имеющих рейтинг в сезоне
	UserIDsWithRanking(seasonID uint) ([]uint, error)
	// LockUserSeason берёт advisory lock на пару (user, season) в рамках транзакции.
	// Сериализует цикл чтение-пересчёт-запись для одного пользователя (не более
	// одного писателя на пару в любой момент).
	LockUserSeason(tx *gorm.DB, userID, seasonID uint) error
}
