package postgres

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ContestantRepo реализует repository.ContestantRepository
type ContestantRepo struct {
	db *gorm.DB
}

// NewContestantRepo создает новый репозиторий участников
func NewContestantRepo(db *gorm.DB) *ContestantRepo {
	return &ContestantRepo{db: db}
}

// Create создает нового участника
func (r *ContestantRepo) Create(contestant *entity.Contestant) error {
	return r.db.Create(contestant).Error
}

// Update обновляет участника
func (r *ContestantRepo) Update(contestant *entity.Contestant) error {
	return r.db.Save(contestant).Error
}

// GetByID возвращает участника по ID
func (r *ContestantRepo) GetByID(id uint) (*entity.Contestant, error) {
	var contestant entity.Contestant
	err := r.db.First(&contestant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &contestant, nil
}

// GetBySeason возвращает всех участников сезона, отсортированных по имени
func (r *ContestantRepo) GetBySeason(seasonID uint) ([]entity.Contestant, error) {
	var contestants []entity.Contestant
	err := r.db.Where("season_id = ?", seasonID).Order("name").Find(&contestants).Error
	return contestants, err
}

// SetElimination выставляет статус выбывания участника
func (r *ContestantRepo) SetElimination(contestantID uint, eliminated bool, episodeNumber *int) error {
	updates := map[string]interface{}{
		"eliminated":         eliminated,
		"eliminated_episode": episodeNumber,
	}
	if !eliminated {
		// Снятие флага — ручное исправление админом, эпизод выбывания обнуляется
		updates["eliminated_episode"] = nil
		log.Printf("[ContestantRepo] Снятие статуса выбывания для участника #%d (ручное исправление)", contestantID)
	}

	result := r.db.Model(&entity.Contestant{}).Where("id = ?", contestantID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddPoints атомарно прибавляет очки участнику внутри переданной транзакции
func (r *ContestantRepo) AddPoints(tx *gorm.DB, contestantID uint, points int) error {
	return tx.Model(&entity.Contestant{}).
		Where("id = ?", contestantID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).
		Error
}

// IncrementEpisodesParticipated увеличивает счётчик эпизодов для всех
// невыбывших участников сезона внутри переданной транзакции
func (r *ContestantRepo) IncrementEpisodesParticipated(tx *gorm.DB, seasonID uint) error {
	return tx.Model(&entity.Contestant{}).
		Where("season_id = ? AND eliminated = false", seasonID).
		UpdateColumn("episodes_participated", gorm.Expr("episodes_participated + ?", 1)).
		Error
}
