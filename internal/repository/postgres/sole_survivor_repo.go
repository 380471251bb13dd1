package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// SoleSurvivorRepo реализует repository.SoleSurvivorRepository
type SoleSurvivorRepo struct {
	db *gorm.DB
}

// NewSoleSurvivorRepo создает новый репозиторий пиков sole survivor
func NewSoleSurvivorRepo(db *gorm.DB) *SoleSurvivorRepo {
	return &SoleSurvivorRepo{db: db}
}

// GetActive возвращает активный пик пользователя в сезоне
func (r *SoleSurvivorRepo) GetActive(userID, seasonID uint) (*entity.SoleSurvivorPick, error) {
	var pick entity.SoleSurvivorPick
	err := r.db.Where("user_id = ? AND season_id = ? AND active = true", userID, seasonID).
		First(&pick).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &pick, nil
}

// GetActiveBySeason возвращает активные пики всех пользователей сезона
func (r *SoleSurvivorRepo) GetActiveBySeason(seasonID uint) ([]entity.SoleSurvivorPick, error) {
	var picks []entity.SoleSurvivorPick
	err := r.db.Where("season_id = ? AND active = true", seasonID).
		Order("user_id").
		Find(&picks).Error
	return picks, err
}

// GetHistory возвращает все пики пользователя в сезоне, включая заменённые
func (r *SoleSurvivorRepo) GetHistory(userID, seasonID uint) ([]entity.SoleSurvivorPick, error) {
	var picks []entity.SoleSurvivorPick
	err := r.db.Where("user_id = ? AND season_id = ?", userID, seasonID).
		Order("selected_at").
		Find(&picks).Error
	return picks, err
}

// Replace деактивирует текущий активный пик (если есть) и создаёт новый —
// одной транзакцией. Старая запись не мутируется по содержанию, только
// помечается неактивной с отметкой времени: история пиков сохраняется.
func (r *SoleSurvivorRepo) Replace(pick *entity.SoleSurvivorPick) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&entity.SoleSurvivorPick{}).
			Where("user_id = ? AND season_id = ? AND active = true", pick.UserID, pick.SeasonID).
			Updates(map[string]interface{}{"active": false, "replaced_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(pick).Error
	})
}

// IncrementEpisodesHeld увеличивает счётчик эпизодов активного пика пользователя.
// ErrNoActivePick, если активного пика нет: счётчик не создаётся автоматически.
func (r *SoleSurvivorRepo) IncrementEpisodesHeld(tx *gorm.DB, userID, seasonID uint) error {
	result := tx.Model(&entity.SoleSurvivorPick{}).
		Where("user_id = ? AND season_id = ? AND active = true", userID, seasonID).
		UpdateColumn("episodes_held", gorm.Expr("episodes_held + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNoActivePick
	}
	return nil
}
