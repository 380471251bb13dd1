package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// ScoreCategoryRepository определяет методы для работы с категориями очков
type ScoreCategoryRepository interface {
	Create(category *entity.ScoreCategory) error
	Update(category *entity.ScoreCategory) error
	GetByID(id uint) (*entity.ScoreCategory, error)
	GetBySeason(seasonID uint) ([]entity.ScoreCategory, error)
}

// ScoringEventRepository определяет методы для работы с событиями начисления очков
type ScoringEventRepository interface {
	Create(event *entity.ScoringEvent) error
	GetByEpisode(episodeID uint) ([]entity.ScoringEvent, error)
	// SumPointsByContestant возвращает сумму очков каждого участника за эпизод
	SumPointsByContestant(episodeID uint) (map[uint]int, error)
}

// EpisodeScoreRepository определяет методы для работы с поэпизодными очками пользователей
type EpisodeScoreRepository interface {
	// CreateBatch создаёт записи очков за эпизод (внутри переданной транзакции)
	CreateBatch(tx *gorm.DB, scores []entity.EpisodeScore) error
	GetByUser(userID, seasonID uint) ([]entity.EpisodeScore, error)
	// SumBySeason возвращает суммарные очки и бонусы всех пользователей сезона
	SumBySeason(seasonID uint) ([]UserSeasonTotal, error)
}

// UserSeasonTotal — агрегат очков пользователя за сезон (не персистится)
type UserSeasonTotal struct {
	UserID            uint
	Username          string
	ProfilePicture    string
	TotalPoints       int
	SoleSurvivorBonus int
}
