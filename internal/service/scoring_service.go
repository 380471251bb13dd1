package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ScoringService — админский контур начисления очков: категории, события
// эпизода, выбывания и финализация. Финализация эпизода — единственная
// операция, которая меняет тоталы пользователей, и выполняется одной
// транзакцией.
type ScoringService struct {
	db               *gorm.DB
	seasonRepo       repository.SeasonRepository
	episodeRepo      repository.EpisodeRepository
	contestantRepo   repository.ContestantRepository
	categoryRepo     repository.ScoreCategoryRepository
	eventRepo        repository.ScoringEventRepository
	episodeScoreRepo repository.EpisodeScoreRepository
	soleSurvivorRepo repository.SoleSurvivorRepository
	rankingRepo      repository.RankingRepository
	userRepo         repository.UserRepository
	draftService     *DraftService
	emailService     EmailService
	cacheRepo        repository.CacheRepository
	broadcaster      Broadcaster

	// Очков бонуса за каждый эпизод, пока пик sole survivor в игре
	soleSurvivorPointsPerEpisode int
}

// NewScoringService создает новый сервис начисления очков
func NewScoringService(
	db *gorm.DB,
	seasonRepo repository.SeasonRepository,
	episodeRepo repository.EpisodeRepository,
	contestantRepo repository.ContestantRepository,
	categoryRepo repository.ScoreCategoryRepository,
	eventRepo repository.ScoringEventRepository,
	episodeScoreRepo repository.EpisodeScoreRepository,
	soleSurvivorRepo repository.SoleSurvivorRepository,
	rankingRepo repository.RankingRepository,
	userRepo repository.UserRepository,
	draftService *DraftService,
	emailService EmailService,
	cacheRepo repository.CacheRepository,
	broadcaster Broadcaster,
	soleSurvivorPointsPerEpisode int,
) *ScoringService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if soleSurvivorPointsPerEpisode <= 0 {
		soleSurvivorPointsPerEpisode = 1
	}
	return &ScoringService{
		db:                           db,
		seasonRepo:                   seasonRepo,
		episodeRepo:                  episodeRepo,
		contestantRepo:               contestantRepo,
		categoryRepo:                 categoryRepo,
		eventRepo:                    eventRepo,
		episodeScoreRepo:             episodeScoreRepo,
		soleSurvivorRepo:             soleSurvivorRepo,
		rankingRepo:                  rankingRepo,
		userRepo:                     userRepo,
		draftService:                 draftService,
		emailService:                 emailService,
		cacheRepo:                    cacheRepo,
		broadcaster:                  broadcaster,
		soleSurvivorPointsPerEpisode: soleSurvivorPointsPerEpisode,
	}
}

// CreateCategory создает новую категорию очков сезона
func (s *ScoringService) CreateCategory(category *entity.ScoreCategory) error {
	if category.Code == "" || category.Name == "" {
		return fmt.Errorf("%w: category code and name are required", apperrors.ErrValidation)
	}
	if _, err := s.seasonRepo.GetByID(category.SeasonID); err != nil {
		return err
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory обновляет категорию. Очки уже записанных событий не трогаются:
// они зафиксированы на момент ввода.
func (s *ScoringService) UpdateCategory(category *entity.ScoreCategory) error {
	if _, err := s.categoryRepo.GetByID(category.ID); err != nil {
		return err
	}
	return s.categoryRepo.Update(category)
}

// GetCategories возвращает категории очков сезона
func (s *ScoringService) GetCategories(seasonID uint) ([]entity.ScoreCategory, error) {
	return s.categoryRepo.GetBySeason(seasonID)
}

// RecordEvent записывает событие начисления очков в эпизоде.
// Очки категории копируются в событие: последующая правка категории
// не меняет уже записанную историю.
func (s *ScoringService) RecordEvent(episodeID, contestantID, categoryID, adminID uint) (*entity.ScoringEvent, error) {
	episode, err := s.episodeRepo.GetByID(episodeID)
	if err != nil {
		return nil, err
	}
	if episode.Locked {
		return nil, fmt.Errorf("%w: episode %d is locked", apperrors.ErrConflict, episodeID)
	}

	contestant, err := s.contestantRepo.GetByID(contestantID)
	if err != nil {
		return nil, err
	}
	if contestant.SeasonID != episode.SeasonID {
		return nil, fmt.Errorf("%w: contestant %d does not belong to season %d", apperrors.ErrUnknownContestant, contestantID, episode.SeasonID)
	}

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category.SeasonID != episode.SeasonID {
		return nil, fmt.Errorf("%w: category %d does not belong to season %d", apperrors.ErrValidation, categoryID, episode.SeasonID)
	}

	event := &entity.ScoringEvent{
		EpisodeID:    episodeID,
		ContestantID: contestantID,
		CategoryID:   categoryID,
		Points:       category.Points,
		CreatedBy:    adminID,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEpisodeEvents возвращает события начисления очков эпизода
func (s *ScoringService) GetEpisodeEvents(episodeID uint) ([]entity.ScoringEvent, error) {
	return s.eventRepo.GetByEpisode(episodeID)
}

// SetElimination выставляет статус выбывания участника и пересчитывает пики
// всех пользователей сезона. Выбывание активного пика продвигает голову
// очереди замен пользователя; затронутые игроки получают письмо.
func (s *ScoringService) SetElimination(contestantID uint, eliminated bool, episodeNumber *int) error {
	contestant, err := s.contestantRepo.GetByID(contestantID)
	if err != nil {
		return err
	}

	if err := s.contestantRepo.SetElimination(contestantID, eliminated, episodeNumber); err != nil {
		return err
	}
	log.Printf("[ScoringService] Участник %d (%s) eliminated=%v season=%d", contestantID, contestant.Name, eliminated, contestant.SeasonID)

	results, err := s.draftService.RecomputeSeason(contestant.SeasonID)
	if err != nil {
		return err
	}

	if eliminated {
		s.notifyReplacedPicks(contestant, results)
	}

	s.broadcaster.BroadcastEvent("contestant:eliminated", map[string]interface{}{
		"contestant_id": contestantID,
		"season_id":     contestant.SeasonID,
		"eliminated":    eliminated,
	})
	return nil
}

// notifyReplacedPicks рассылает письма пользователям, у которых выбывший
// участник был активным пиком. Ошибки отправки логируются и не прерывают поток.
func (s *ScoringService) notifyReplacedPicks(contestant *entity.Contestant, results map[uint]*RecomputeResult) {
	for userID, result := range results {
		if result == nil || !result.Changed {
			continue
		}
		affected := false
		for _, p := range result.Deactivated {
			if p.ContestantID == contestant.ID {
				affected = true
				break
			}
		}
		if !affected {
			continue
		}

		replacementName := ""
		if len(result.Created) > 0 {
			if repl, err := s.contestantRepo.GetByID(result.Created[0].ContestantID); err == nil {
				replacementName = repl.Name
			}
		}

		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			log.Printf("[ScoringService] Не удалось получить пользователя %d для уведомления: %v", userID, err)
			continue
		}

		idempotencyKey := fmt.Sprintf("pick-replaced-%d-%d-%d", userID, contestant.SeasonID, contestant.ID)
		if err := s.emailService.SendPickReplacedNotice(context.Background(), user.Email, contestant.Name, replacementName, idempotencyKey); err != nil {
			log.Printf("[ScoringService] Ошибка отправки письма о замене пика user=%d: %v", userID, err)
		}
	}
}

// FinalizeEpisode подводит итоги эпизода одной транзакцией: считает очки
// пиков каждого пользователя, бонус sole survivor, пишет поэпизодные записи,
// обновляет тоталы пользователей и участников и блокирует эпизод от правок.
// Повторная финализация отвергается (ErrConflict).
func (s *ScoringService) FinalizeEpisode(episodeID uint) error {
	episode, err := s.episodeRepo.GetByID(episodeID)
	if err != nil {
		return err
	}
	if episode.Scored {
		return fmt.Errorf("%w: episode %d is already scored", apperrors.ErrConflict, episodeID)
	}

	contestantPoints, err := s.eventRepo.SumPointsByContestant(episodeID)
	if err != nil {
		return err
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

	if err := s.finalizeInTx(tx, episode, contestantPoints); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit episode finalization: %w", err)
	}

	// Снапшот лидерборда устарел
	if err := s.cacheRepo.Delete(leaderboardCacheKey(episode.SeasonID)); err != nil {
		log.Printf("[ScoringService] Ошибка инвалидации кеша лидерборда season=%d: %v", episode.SeasonID, err)
	}

	s.broadcaster.BroadcastEvent("episode:scored", map[string]interface{}{
		"episode_id": episodeID,
		"season_id":  episode.SeasonID,
		"number":     episode.Number,
	})
	s.broadcaster.BroadcastEvent("leaderboard:updated", map[string]interface{}{
		"season_id": episode.SeasonID,
	})
	log.Printf("[ScoringService] Эпизод %d (сезон %d, №%d) финализирован", episodeID, episode.SeasonID, episode.Number)
	return nil
}

func (s *ScoringService) finalizeInTx(tx *gorm.DB, episode *entity.Episode, contestantPoints map[uint]int) error {
	// Снимок состояния читается внутри транзакции финализации
	var activePicks []entity.DraftPick
	if err := tx.Where("season_id = ? AND active = true", episode.SeasonID).
		Find(&activePicks).Error; err != nil {
		return err
	}
	var ssPicks []entity.SoleSurvivorPick
	if err := tx.Where("season_id = ? AND active = true", episode.SeasonID).
		Find(&ssPicks).Error; err != nil {
		return err
	}
	var contestants []entity.Contestant
	if err := tx.Where("season_id = ?", episode.SeasonID).Find(&contestants).Error; err != nil {
		return err
	}
	eliminated := make(map[uint]bool, len(contestants))
	for _, c := range contestants {
		eliminated[c.ID] = c.Eliminated
	}

	pickPoints := make(map[uint]int)
	for _, p := range activePicks {
		pickPoints[p.UserID] += contestantPoints[p.ContestantID]
	}

	ssBonus := make(map[uint]int)
	ssSurvived := make(map[uint]bool)
	for _, p := range ssPicks {
		if !eliminated[p.ContestantID] {
			ssBonus[p.UserID] = s.soleSurvivorPointsPerEpisode
			ssSurvived[p.UserID] = true
		}
	}

	// Запись очков получают все пользователи с командой или пиком sole survivor
	userIDs := make(map[uint]struct{})
	for _, p := range activePicks {
		userIDs[p.UserID] = struct{}{}
	}
	for _, p := range ssPicks {
		userIDs[p.UserID] = struct{}{}
	}

	scores := make([]entity.EpisodeScore, 0, len(userIDs))
	for userID := range userIDs {
		scores = append(scores, entity.EpisodeScore{
			UserID:            userID,
			EpisodeID:         episode.ID,
			PickPoints:        pickPoints[userID],
			SoleSurvivorBonus: ssBonus[userID],
		})
	}
	if err := s.episodeScoreRepo.CreateBatch(tx, scores); err != nil {
		return err
	}

	for userID := range userIDs {
		total := pickPoints[userID] + ssBonus[userID]
		if total == 0 && ssBonus[userID] == 0 {
			continue
		}
		if err := tx.Model(&entity.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":        gorm.Expr("total_points + ?", total),
				"sole_survivor_bonus": gorm.Expr("sole_survivor_bonus + ?", ssBonus[userID]),
			}).Error; err != nil {
			return err
		}
	}

	for userID, survived := range ssSurvived {
		if !survived {
			continue
		}
		if err := s.soleSurvivorRepo.IncrementEpisodesHeld(tx, userID, episode.SeasonID); err != nil {
			if errors.Is(err, apperrors.ErrNoActivePick) {
				continue
			}
			return err
		}
	}

	for contestantID, points := range contestantPoints {
		if points == 0 {
			continue
		}
		if err := s.contestantRepo.AddPoints(tx, contestantID, points); err != nil {
			return err
		}
	}
	if err := s.contestantRepo.IncrementEpisodesParticipated(tx, episode.SeasonID); err != nil {
		return err
	}

	now := time.Now()
	return tx.Model(&entity.Episode{}).
		Where("id = ?", episode.ID).
		Updates(map[string]interface{}{
			"scored":    true,
			"locked":    true,
			"scored_at": now,
		}).Error
}
