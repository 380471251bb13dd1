package repository

import (
	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// SeasonRepository определяет методы для работы с сезонами
type SeasonRepository interface {
	Create(season *entity.Season) error
	Update(season *entity.Season) error
	GetByID(id uint) (*entity.Season, error)
	// GetActive возвращает текущий активный сезон (ErrNotFound, если его нет)
	GetActive() (*entity.Season, error)
	List() ([]entity.Season, error)
}

// EpisodeRepository определяет методы для работы с эпизодами
type EpisodeRepository interface {
	Create(episode *entity.Episode) error
	Update(episode *entity.Episode) error
	GetByID(id uint) (*entity.Episode, error)
	GetBySeason(seasonID uint) ([]entity.Episode, error)
}

// TribeRepository определяет методы для работы с племенами
type TribeRepository interface {
	Create(tribe *entity.Tribe) error
	Update(tribe *entity.Tribe) error
	GetBySeason(seasonID uint) ([]entity.Tribe, error)
}
