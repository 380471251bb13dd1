package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// SoleSurvivorService управляет бонусным пиком «единственного выжившего».
// Пик не зависит от драфта: это отдельный прогноз победителя сезона,
// приносящий по очку за каждый эпизод, пока выбранный участник в игре.
type SoleSurvivorService struct {
	soleSurvivorRepo repository.SoleSurvivorRepository
	contestantRepo   repository.ContestantRepository
	seasonRepo       repository.SeasonRepository
}

// NewSoleSurvivorService создает новый сервис пиков sole survivor
func NewSoleSurvivorService(
	soleSurvivorRepo repository.SoleSurvivorRepository,
	contestantRepo repository.ContestantRepository,
	seasonRepo repository.SeasonRepository,
) *SoleSurvivorService {
	return &SoleSurvivorService{
		soleSurvivorRepo: soleSurvivorRepo,
		contestantRepo:   contestantRepo,
		seasonRepo:       seasonRepo,
	}
}

// Select устанавливает пик sole survivor пользователя, заменяя предыдущий.
// До дедлайна пик можно менять сколько угодно раз; история замен сохраняется.
// Выбор уже выбывшего участника не запрещается: такой пик легален, просто
// никогда не принесёт бонусных очков.
func (s *SoleSurvivorService) Select(userID, seasonID, contestantID uint) (*entity.SoleSurvivorPick, error) {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, err
	}
	if !season.SoleSurvivorOpen(nowFunc()) {
		return nil, fmt.Errorf("%w: sole survivor deadline for season %d has passed", apperrors.ErrForbidden, seasonID)
	}

	contestant, err := s.contestantRepo.GetByID(contestantID)
	if err != nil {
		return nil, err
	}
	if contestant.SeasonID != seasonID {
		return nil, fmt.Errorf("%w: contestant %d does not belong to season %d", apperrors.ErrUnknownContestant, contestantID, seasonID)
	}
	if contestant.Eliminated {
		log.Printf("[SoleSurvivorService] user=%d выбирает уже выбывшего участника %d (%s) — пик принят, бонусов не будет",
			userID, contestantID, contestant.Name)
	}

	isOriginal := false
	history, err := s.soleSurvivorRepo.GetHistory(userID, seasonID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		isOriginal = true
	}

	pick := &entity.SoleSurvivorPick{
		UserID:       userID,
		SeasonID:     seasonID,
		ContestantID: contestantID,
		IsOriginal:   isOriginal,
		Active:       true,
		SelectedAt:   nowFunc(),
	}
	if err := s.soleSurvivorRepo.Replace(pick); err != nil {
		return nil, err
	}
	return pick, nil
}

// GetPick возвращает активный пик пользователя (ErrNotFound, если пика нет)
func (s *SoleSurvivorService) GetPick(userID, seasonID uint) (*entity.SoleSurvivorPick, error) {
	return s.soleSurvivorRepo.GetActive(userID, seasonID)
}

// GetHistory возвращает все пики пользователя в сезоне, включая заменённые
func (s *SoleSurvivorService) GetHistory(userID, seasonID uint) ([]entity.SoleSurvivorPick, error) {
	return s.soleSurvivorRepo.GetHistory(userID, seasonID)
}

// HasActivePick сообщает, есть ли у пользователя активный пик в сезоне
func (s *SoleSurvivorService) HasActivePick(userID, seasonID uint) (bool, error) {
	_, err := s.soleSurvivorRepo.GetActive(userID, seasonID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
