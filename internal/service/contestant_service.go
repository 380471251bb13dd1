package service

import (
	"fmt"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ContestantService управляет участниками шоу
type ContestantService struct {
	contestantRepo repository.ContestantRepository
	seasonRepo     repository.SeasonRepository
	tribeRepo      repository.TribeRepository
}

// NewContestantService создает новый сервис участников
func NewContestantService(
	contestantRepo repository.ContestantRepository,
	seasonRepo repository.SeasonRepository,
	tribeRepo repository.TribeRepository,
) *ContestantService {
	return &ContestantService{
		contestantRepo: contestantRepo,
		seasonRepo:     seasonRepo,
		tribeRepo:      tribeRepo,
	}
}

// CreateContestant создает участника сезона. Добавление участника после
// дедлайна драфта сломало бы инвариант покрытия рейтингов, поэтому запрещено.
func (s *ContestantService) CreateContestant(contestant *entity.Contestant) error {
	if contestant.Name == "" {
		return fmt.Errorf("%w: contestant name is required", apperrors.ErrValidation)
	}
	season, err := s.seasonRepo.GetByID(contestant.SeasonID)
	if err != nil {
		return err
	}
	if !season.DraftOpen(nowFunc()) {
		return fmt.Errorf("%w: contestant roster is frozen after the draft deadline", apperrors.ErrForbidden)
	}
	if err := s.validateTribe(contestant); err != nil {
		return err
	}
	contestant.Eliminated = false
	contestant.EliminatedEpisode = nil
	return s.contestantRepo.Create(contestant)
}

// UpdateContestant обновляет профиль участника. Статус выбывания этим путём
// не меняется: для него есть отдельная операция со своим пересчётом пиков.
func (s *ContestantService) UpdateContestant(contestant *entity.Contestant) error {
	existing, err := s.contestantRepo.GetByID(contestant.ID)
	if err != nil {
		return err
	}
	if contestant.SeasonID != existing.SeasonID {
		return fmt.Errorf("%w: contestant cannot move between seasons", apperrors.ErrValidation)
	}
	if err := s.validateTribe(contestant); err != nil {
		return err
	}
	contestant.Eliminated = existing.Eliminated
	contestant.EliminatedEpisode = existing.EliminatedEpisode
	contestant.TotalPoints = existing.TotalPoints
	contestant.EpisodesParticipated = existing.EpisodesParticipated
	return s.contestantRepo.Update(contestant)
}

func (s *ContestantService) validateTribe(contestant *entity.Contestant) error {
	if contestant.TribeID == nil {
		return nil
	}
	tribes, err := s.tribeRepo.GetBySeason(contestant.SeasonID)
	if err != nil {
		return err
	}
	for _, t := range tribes {
		if t.ID == *contestant.TribeID {
			return nil
		}
	}
	return fmt.Errorf("%w: tribe %d does not belong to season %d", apperrors.ErrValidation, *contestant.TribeID, contestant.SeasonID)
}

// GetContestant возвращает участника по ID
func (s *ContestantService) GetContestant(contestantID uint) (*entity.Contestant, error) {
	return s.contestantRepo.GetByID(contestantID)
}

// GetContestants возвращает участников сезона
func (s *ContestantService) GetContestants(seasonID uint) ([]entity.Contestant, error) {
	return s.contestantRepo.GetBySeason(seasonID)
}
