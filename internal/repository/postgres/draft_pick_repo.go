package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// DraftPickRepo реализует repository.DraftPickRepository
type DraftPickRepo struct {
	db *gorm.DB
}

// NewDraftPickRepo создает новый репозиторий пиков драфта
func NewDraftPickRepo(db *gorm.DB) *DraftPickRepo {
	return &DraftPickRepo{db: db}
}

// GetActive возвращает активные пики пользователя в сезоне по слотам
func (r *DraftPickRepo) GetActive(userID, seasonID uint) ([]entity.DraftPick, error) {
	var picks []entity.DraftPick
	err := r.db.Where("user_id = ? AND season_id = ? AND active = true", userID, seasonID).
		Order("slot").
		Find(&picks).Error
	return picks, err
}

// GetActiveBySeason возвращает все активные пики сезона
func (r *DraftPickRepo) GetActiveBySeason(seasonID uint) ([]entity.DraftPick, error) {
	var picks []entity.DraftPick
	err := r.db.Where("season_id = ? AND active = true", seasonID).
		Order("user_id, slot").
		Find(&picks).Error
	return picks, err
}

// GetHistory возвращает все пики пользователя в сезоне, включая заменённые
func (r *DraftPickRepo) GetHistory(userID, seasonID uint) ([]entity.DraftPick, error) {
	var picks []entity.DraftPick
	err := r.db.Where("user_id = ? AND season_id = ?", userID, seasonID).
		Order("picked_at, slot").
		Find(&picks).Error
	return picks, err
}

// Deactivate помечает пики неактивными с отметкой времени замены
func (r *DraftPickRepo) Deactivate(tx *gorm.DB, pickIDs []uint, replacedAt time.Time) error {
	if len(pickIDs) == 0 {
		return nil
	}
	return tx.Model(&entity.DraftPick{}).
		Where("id IN ?", pickIDs).
		Updates(map[string]interface{}{"active": false, "replaced_at": replacedAt}).
		Error
}

// CreateBatch создаёт новые пики внутри переданной транзакции
func (r *DraftPickRepo) CreateBatch(tx *gorm.DB, picks []entity.DraftPick) error {
	if len(picks) == 0 {
		return nil
	}
	return tx.Create(&picks).Error
}
