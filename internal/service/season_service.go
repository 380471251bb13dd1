package service

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// SeasonService управляет сезонами, эпизодами и племенами
type SeasonService struct {
	db          *gorm.DB
	seasonRepo  repository.SeasonRepository
	episodeRepo repository.EpisodeRepository
	tribeRepo   repository.TribeRepository

	defaultTeamSize int
}

// NewSeasonService создает новый сервис сезонов
func NewSeasonService(
	db *gorm.DB,
	seasonRepo repository.SeasonRepository,
	episodeRepo repository.EpisodeRepository,
	tribeRepo repository.TribeRepository,
	defaultTeamSize int,
) *SeasonService {
	if defaultTeamSize < 1 {
		defaultTeamSize = 2
	}
	return &SeasonService{
		db:              db,
		seasonRepo:      seasonRepo,
		episodeRepo:     episodeRepo,
		tribeRepo:       tribeRepo,
		defaultTeamSize: defaultTeamSize,
	}
}

// CreateSeason создает новый сезон. Новый сезон всегда создаётся неактивным:
// активация — отдельная операция, чтобы активный сезон был ровно один.
func (s *SeasonService) CreateSeason(season *entity.Season) error {
	if season.Name == "" {
		return fmt.Errorf("%w: season name is required", apperrors.ErrValidation)
	}
	if season.TeamSize < 1 {
		season.TeamSize = s.defaultTeamSize
	}
	if !season.DraftDeadline.Before(season.SoleSurvivorDeadline) && !season.DraftDeadline.Equal(season.SoleSurvivorDeadline) {
		return fmt.Errorf("%w: sole survivor deadline must not precede draft deadline", apperrors.ErrValidation)
	}
	season.Active = false
	return s.seasonRepo.Create(season)
}

// UpdateSeason обновляет параметры сезона. Размер команды после дедлайна
// драфта менять нельзя: от него зависят уже выданные пики.
func (s *SeasonService) UpdateSeason(season *entity.Season) error {
	existing, err := s.seasonRepo.GetByID(season.ID)
	if err != nil {
		return err
	}
	if season.TeamSize != existing.TeamSize && !existing.DraftOpen(nowFunc()) {
		return fmt.Errorf("%w: team size is frozen after the draft deadline", apperrors.ErrForbidden)
	}
	season.Active = existing.Active
	return s.seasonRepo.Update(season)
}

// ActivateSeason делает сезон активным, деактивируя остальные.
// Выполняется одной транзакцией; частичный уникальный индекс в БД страхует
// инвариант «не более одного активного сезона».
func (s *SeasonService) ActivateSeason(seasonID uint) error {
	if _, err := s.seasonRepo.GetByID(seasonID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Season{}).
			Where("active = true AND id <> ?", seasonID).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Season{}).
			Where("id = ?", seasonID).
			Update("active", true).Error
	})
	if err != nil {
		return err
	}
	log.Printf("[SeasonService] Сезон %d активирован", seasonID)
	return nil
}

// GetSeason возвращает сезон по ID
func (s *SeasonService) GetSeason(seasonID uint) (*entity.Season, error) {
	return s.seasonRepo.GetByID(seasonID)
}

// GetActiveSeason возвращает текущий активный сезон
func (s *SeasonService) GetActiveSeason() (*entity.Season, error) {
	return s.seasonRepo.GetActive()
}

// ListSeasons возвращает все сезоны
func (s *SeasonService) ListSeasons() ([]entity.Season, error) {
	return s.seasonRepo.List()
}

// CreateEpisode создает эпизод сезона. Номер эпизода уникален в рамках
// сезона (уникальный индекс в БД).
func (s *SeasonService) CreateEpisode(episode *entity.Episode) error {
	if episode.Number < 1 {
		return fmt.Errorf("%w: episode number must be positive", apperrors.ErrValidation)
	}
	if _, err := s.seasonRepo.GetByID(episode.SeasonID); err != nil {
		return err
	}
	episode.Scored = false
	episode.Locked = false
	return s.episodeRepo.Create(episode)
}

// GetEpisodes возвращает эпизоды сезона по возрастанию номера
func (s *SeasonService) GetEpisodes(seasonID uint) ([]entity.Episode, error) {
	return s.episodeRepo.GetBySeason(seasonID)
}

// GetEpisode возвращает эпизод по ID
func (s *SeasonService) GetEpisode(episodeID uint) (*entity.Episode, error) {
	return s.episodeRepo.GetByID(episodeID)
}

// CreateTribe создает племя сезона
func (s *SeasonService) CreateTribe(tribe *entity.Tribe) error {
	if tribe.Name == "" {
		return fmt.Errorf("%w: tribe name is required", apperrors.ErrValidation)
	}
	if _, err := s.seasonRepo.GetByID(tribe.SeasonID); err != nil {
		return err
	}
	return s.tribeRepo.Create(tribe)
}

// GetTribes возвращает племена сезона
func (s *SeasonService) GetTribes(seasonID uint) ([]entity.Tribe, error) {
	return s.tribeRepo.GetBySeason(seasonID)
}
