package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// SeasonRepo реализует repository.SeasonRepository
type SeasonRepo struct {
	db *gorm.DB
}

// NewSeasonRepo создает новый репозиторий сезонов
func NewSeasonRepo(db *gorm.DB) *SeasonRepo {
	return &SeasonRepo{db: db}
}

// Create создает новый сезон
func (r *SeasonRepo) Create(season *entity.Season) error {
	return r.db.Create(season).Error
}

// Update обновляет сезон
func (r *SeasonRepo) Update(season *entity.Season) error {
	return r.db.Save(season).Error
}

// GetByID возвращает сезон по ID
func (r *SeasonRepo) GetByID(id uint) (*entity.Season, error) {
	var season entity.Season
	err := r.db.First(&season, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &season, nil
}

// GetActive возвращает активный сезон. Частичный уникальный индекс в БД
// гарантирует, что активный сезон не более одного.
func (r *SeasonRepo) GetActive() (*entity.Season, error) {
	var season entity.Season
	err := r.db.Where("active = true").First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &season, nil
}

// List возвращает все сезоны, новые первыми
func (r *SeasonRepo) List() ([]entity.Season, error) {
	var seasons []entity.Season
	err := r.db.Order("id DESC").Find(&seasons).Error
	return seasons, err
}

// EpisodeRepo реализует repository.EpisodeRepository
type EpisodeRepo struct {
	db *gorm.DB
}

// NewEpisodeRepo создает новый репозиторий эпизодов
func NewEpisodeRepo(db *gorm.DB) *EpisodeRepo {
	return &EpisodeRepo{db: db}
}

// Create создает новый эпизод
func (r *EpisodeRepo) Create(episode *entity.Episode) error {
	return r.db.Create(episode).Error
}

// Update обновляет эпизод
func (r *EpisodeRepo) Update(episode *entity.Episode) error {
	return r.db.Save(episode).Error
}

// GetByID возвращает эпизод по ID
func (r *EpisodeRepo) GetByID(id uint) (*entity.Episode, error) {
	var episode entity.Episode
	err := r.db.First(&episode, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &episode, nil
}

// GetBySeason возвращает эпизоды сезона по порядку номеров
func (r *EpisodeRepo) GetBySeason(seasonID uint) ([]entity.Episode, error) {
	var episodes []entity.Episode
	err := r.db.Where("season_id = ?", seasonID).Order("number").Find(&episodes).Error
	return episodes, err
}

// TribeRepo реализует repository.TribeRepository
type TribeRepo struct {
	db *gorm.DB
}

// NewTribeRepo создает новый репозиторий племен
func NewTribeRepo(db *gorm.DB) *TribeRepo {
	return &TribeRepo{db: db}
}

// Create создает новое племя
func (r *TribeRepo) Create(tribe *entity.Tribe) error {
	return r.db.Create(tribe).Error
}

// Update обновляет племя
func (r *TribeRepo) Update(tribe *entity.Tribe) error {
	return r.db.Save(tribe).Error
}

// GetBySeason возвращает племена сезона
func (r *TribeRepo) GetBySeason(seasonID uint) ([]entity.Tribe, error) {
	var tribes []entity.Tribe
	err := r.db.Where("season_id = ?", seasonID).Order("id").Find(&tribes).Error
	return tribes, err
}
