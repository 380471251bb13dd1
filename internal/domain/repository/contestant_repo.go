package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// ContestantRepository определяет методы для работы с участниками шоу
type ContestantRepository interface {
	Create(contestant *entity.Contestant) error
	Update(contestant *entity.Contestant) error
	GetByID(id uint) (*entity.Contestant, error)
	GetBySeason(seasonID uint) ([]entity.Contestant, error)
	// SetElimination выставляет статус выбывания. Флаг монотонный в обычной игре,
	// но админ может снять его вручную для исправления ошибки.
	SetElimination(contestantID uint, eliminated bool, episodeNumber *int) error
	// AddPoints атомарно прибавляет очки участнику (внутри переданной транзакции)
	AddPoints(tx *gorm.DB, contestantID uint, points int) error
	// IncrementEpisodesParticipated увеличивает счётчик эпизодов для невыбывших
	// участников сезона (внутри переданной транзакции)
	IncrementEpisodesParticipated(tx *gorm.DB, seasonID uint) error
}
