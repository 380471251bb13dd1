package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
	"github.com/yourusername/survivor-fantasy-api/internal/service/draftengine"
)

// RankingService управляет рейтингами предпочтений пользователей.
// Рейтинг — единственный пользовательский вход драфта: команда и очередь
// замен выводятся из него детерминированно.
type RankingService struct {
	db             *gorm.DB
	rankingRepo    repository.RankingRepository
	contestantRepo repository.ContestantRepository
	seasonRepo     repository.SeasonRepository
	draftService   *DraftService
}

// NewRankingService создает новый сервис рейтингов
func NewRankingService(
	db *gorm.DB,
	rankingRepo repository.RankingRepository,
	contestantRepo repository.ContestantRepository,
	seasonRepo repository.SeasonRepository,
	draftService *DraftService,
) *RankingService {
	return &RankingService{
		db:             db,
		rankingRepo:    rankingRepo,
		contestantRepo: contestantRepo,
		seasonRepo:     seasonRepo,
		draftService:   draftService,
	}
}

// GetRanking возвращает рейтинг пользователя. Если рейтинга ещё нет и драфт
// открыт, создаётся дефолтный — участники в алфавитном порядке. Так у каждого
// зашедшего пользователя сразу есть валидная перестановка, которую он правит.
func (s *RankingService) GetRanking(userID, seasonID uint) ([]entity.RankingEntry, error) {
	entries, err := s.rankingRepo.GetByUserSeason(userID, seasonID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, err
	}
	if !season.DraftOpen(nowFunc()) {
		// После дедлайна новые рейтинги не создаются
		return []entity.RankingEntry{}, nil
	}

	if err := s.initializeDefault(userID, season); err != nil {
		return nil, err
	}
	return s.rankingRepo.GetByUserSeason(userID, seasonID)
}

// initializeDefault создаёт алфавитный рейтинг для пользователя без рейтинга
func (s *RankingService) initializeDefault(userID uint, season *entity.Season) error {
	contestants, err := s.contestantRepo.GetBySeason(season.ID)
	if err != nil {
		return err
	}
	if len(contestants) == 0 {
		return fmt.Errorf("%w: season %d has no contestants", apperrors.ErrValidation, season.ID)
	}

	sort.Slice(contestants, func(i, j int) bool {
		if contestants[i].Name != contestants[j].Name {
			return contestants[i].Name < contestants[j].Name
		}
		return contestants[i].ID < contestants[j].ID
	})

	ordered := make([]uint, len(contestants))
	for i, c := range contestants {
		ordered[i] = c.ID
	}

	log.Printf("[RankingService] Создаём дефолтный алфавитный рейтинг user=%d season=%d (%d участников)",
		userID, season.ID, len(ordered))
	return s.replaceAndRecompute(userID, season, ordered, true)
}

// ReplaceRanking атомарно заменяет весь рейтинг пользователя новым порядком.
// orderedContestantIDs — полная перестановка участников сезона, индекс 0
// соответствует позиции 1. После записи пики пересчитываются в той же
// транзакции. После дедлайна драфта рейтинг заморожен.
func (s *RankingService) ReplaceRanking(userID, seasonID uint, orderedContestantIDs []uint) error {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return err
	}
	if !season.DraftOpen(nowFunc()) {
		return fmt.Errorf("%w: draft deadline for season %d has passed", apperrors.ErrForbidden, seasonID)
	}

	return s.replaceAndRecompute(userID, season, orderedContestantIDs, false)
}

// SubmitRanking проставляет отметку явной отправки рейтинга. На вычисление
// пиков не влияет: любой сохранённый рейтинг участвует в драфте, отметка
// нужна для аудита и интерфейса.
func (s *RankingService) SubmitRanking(userID, seasonID uint) error {
	entries, err := s.rankingRepo.GetByUserSeason(userID, seasonID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no ranking to submit", apperrors.ErrNotFound)
	}
	return s.rankingRepo.MarkSubmitted(userID, seasonID)
}

func (s *RankingService) replaceAndRecompute(userID uint, season *entity.Season, orderedContestantIDs []uint, onlyIfEmpty bool) error {
	contestants, err := s.contestantRepo.GetBySeason(season.ID)
	if err != nil {
		return err
	}
	contestantIDs := make([]uint, len(contestants))
	for i, c := range contestants {
		contestantIDs[i] = c.ID
	}

	ranking := make(map[uint]int, len(orderedContestantIDs))
	for i, id := range orderedContestantIDs {
		ranking[id] = i + 1
	}
	if len(ranking) != len(orderedContestantIDs) {
		return fmt.Errorf("%w: duplicate contestant in submitted order", apperrors.ErrMalformedRanking)
	}
	if err := draftengine.Validate(ranking, contestantIDs); err != nil {
		return err
	}

	entries := make([]entity.RankingEntry, len(orderedContestantIDs))
	for i, id := range orderedContestantIDs {
		entries[i] = entity.RankingEntry{
			UserID:       userID,
			SeasonID:     season.ID,
			ContestantID: id,
			Position:     i + 1,
		}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := s.rankingRepo.LockUserSeason(tx, userID, season.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to lock user/season: %w", err)
	}

	if onlyIfEmpty {
		// Под локом перепроверяем, что рейтинг всё ещё пуст: конкурирующая
		// инициализация могла успеть раньше
		var count int64
		if err := tx.Model(&entity.RankingEntry{}).
			Where("user_id = ? AND season_id = ?", userID, season.ID).
			Count(&count).Error; err != nil {
			tx.Rollback()
			return err
		}
		if count > 0 {
			tx.Rollback()
			return nil
		}
	}

	// Отметка отправки переживает последующие правки рейтинга
	var submittedAt *time.Time
	if err := tx.Model(&entity.RankingEntry{}).
		Where("user_id = ? AND season_id = ?", userID, season.ID).
		Select("MAX(submitted_at)").
		Scan(&submittedAt).Error; err != nil {
		tx.Rollback()
		return err
	}
	if submittedAt != nil {
		for i := range entries {
			entries[i].SubmittedAt = submittedAt
		}
	}

	if err := s.rankingRepo.ReplaceSet(tx, userID, season.ID, entries); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := s.draftService.recomputeInTx(tx, userID, season); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit ranking replace: %w", err)
	}
	return nil
}
