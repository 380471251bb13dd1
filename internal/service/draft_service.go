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

// DraftService управляет пиками драфта. Пики никогда не редактируются
// напрямую: единственный способ их изменить — RecomputePicks, который
// пересчитывает команду пользователя из полного снимка рейтинга и статусов
// выбывания. Все пути записи (смена рейтинга, выбывание участника,
// админская корректировка) сходятся в эту точку.
type DraftService struct {
	db             *gorm.DB
	rankingRepo    repository.RankingRepository
	draftPickRepo  repository.DraftPickRepository
	contestantRepo repository.ContestantRepository
	seasonRepo     repository.SeasonRepository
}

// NewDraftService создает новый сервис драфта
func NewDraftService(
	db *gorm.DB,
	rankingRepo repository.RankingRepository,
	draftPickRepo repository.DraftPickRepository,
	contestantRepo repository.ContestantRepository,
	seasonRepo repository.SeasonRepository,
) *DraftService {
	return &DraftService{
		db:             db,
		rankingRepo:    rankingRepo,
		draftPickRepo:  draftPickRepo,
		contestantRepo: contestantRepo,
		seasonRepo:     seasonRepo,
	}
}

// RecomputeResult описывает изменения команды после пересчёта
type RecomputeResult struct {
	Changed     bool
	Deactivated []entity.DraftPick // пики, потерявшие активность в этом пересчёте
	Created     []entity.DraftPick // новые активные пики
}

// TeamView — команда пользователя вместе с очередью замен
type TeamView struct {
	ActivePicks      []entity.DraftPick `json:"active_picks"`
	ReplacementQueue []uint             `json:"replacement_queue"` // ID участников в порядке будущих замен
	History          []entity.DraftPick `json:"history"`
}

// RecomputePicks пересчитывает активные пики пользователя в сезоне.
// Идемпотентен: повторный вызов без изменения входных данных ничего не меняет.
// Держит advisory lock на пару (user, season), так что конкурирующие
// пересчёты одного пользователя сериализуются.
func (s *DraftService) RecomputePicks(userID, seasonID uint) (*RecomputeResult, error) {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	result, err := s.recomputeInTx(tx, userID, season)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit pick recompute: %w", err)
	}

	if result.Changed {
		log.Printf("[DraftService] Пересчёт пиков user=%d season=%d: деактивировано %d, создано %d",
			userID, seasonID, len(result.Deactivated), len(result.Created))
	}
	return result, nil
}

func (s *DraftService) recomputeInTx(tx *gorm.DB, userID uint, season *entity.Season) (*RecomputeResult, error) {
	if err := s.rankingRepo.LockUserSeason(tx, userID, season.ID); err != nil {
		return nil, fmt.Errorf("failed to lock user/season: %w", err)
	}

	// Снимок читается внутри транзакции, под тем же локом, что и запись
	var entries []entity.RankingEntry
	if err := tx.Where("user_id = ? AND season_id = ?", userID, season.ID).
		Order("position").Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		// Пользователь не участвует в драфте этого сезона
		return &RecomputeResult{}, nil
	}

	var contestants []entity.Contestant
	if err := tx.Where("season_id = ?", season.ID).Find(&contestants).Error; err != nil {
		return nil, err
	}

	ranking := make(map[uint]int, len(entries))
	for _, e := range entries {
		ranking[e.ContestantID] = e.Position
	}
	contestantIDs := make([]uint, 0, len(contestants))
	eliminated := make(map[uint]bool, len(contestants))
	for _, c := range contestants {
		contestantIDs = append(contestantIDs, c.ID)
		if c.Eliminated {
			eliminated[c.ID] = true
		}
	}

	if err := draftengine.Validate(ranking, contestantIDs); err != nil {
		return nil, err
	}
	desired, err := draftengine.ComputeActivePicks(ranking, eliminated, season.TeamSize)
	if err != nil {
		return nil, err
	}

	var current []entity.DraftPick
	if err := tx.Where("user_id = ? AND season_id = ? AND active = true", userID, season.ID).
		Order("slot").Find(&current).Error; err != nil {
		return nil, err
	}

	desiredSet := make(map[uint]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	// Диффим текущую команду с желаемой: выжившие пики сохраняют свои слоты
	// и записи, лишние деактивируются, недостающие создаются в освободившихся
	// слотах. Так история пиков остаётся append-only.
	var toDeactivate []entity.DraftPick
	usedSlots := make(map[int]bool, season.TeamSize)
	currentSet := make(map[uint]struct{}, len(current))
	for _, p := range current {
		if _, keep := desiredSet[p.ContestantID]; keep {
			usedSlots[p.Slot] = true
			currentSet[p.ContestantID] = struct{}{}
		} else {
			toDeactivate = append(toDeactivate, p)
		}
	}

	freeSlots := make([]int, 0, season.TeamSize)
	for slot := 1; slot <= season.TeamSize; slot++ {
		if !usedSlots[slot] {
			freeSlots = append(freeSlots, slot)
		}
	}
	sort.Ints(freeSlots)

	now := time.Now()
	var toCreate []entity.DraftPick
	for _, id := range desired {
		if _, exists := currentSet[id]; exists {
			continue
		}
		if len(freeSlots) == 0 {
			return nil, fmt.Errorf("%w: no free slot for contestant %d", apperrors.ErrValidation, id)
		}
		toCreate = append(toCreate, entity.DraftPick{
			UserID:         userID,
			SeasonID:       season.ID,
			Slot:           freeSlots[0],
			ContestantID:   id,
			SourcePosition: ranking[id],
			Active:         true,
			PickedAt:       now,
		})
		freeSlots = freeSlots[1:]
	}

	if len(toDeactivate) > 0 {
		ids := make([]uint, len(toDeactivate))
		for i, p := range toDeactivate {
			ids[i] = p.ID
		}
		if err := s.draftPickRepo.Deactivate(tx, ids, now); err != nil {
			return nil, err
		}
	}
	if len(toCreate) > 0 {
		if err := s.draftPickRepo.CreateBatch(tx, toCreate); err != nil {
			return nil, err
		}
	}

	return &RecomputeResult{
		Changed:     len(toDeactivate) > 0 || len(toCreate) > 0,
		Deactivated: toDeactivate,
		Created:     toCreate,
	}, nil
}

// RecomputeSeason пересчитывает пики всех пользователей сезона, имеющих рейтинг.
// Возвращает результаты по пользователям; ошибка одного пользователя не
// прерывает остальных.
func (s *DraftService) RecomputeSeason(seasonID uint) (map[uint]*RecomputeResult, error) {
	userIDs, err := s.rankingRepo.UserIDsWithRanking(seasonID)
	if err != nil {
		return nil, err
	}

	results := make(map[uint]*RecomputeResult, len(userIDs))
	for _, userID := range userIDs {
		result, err := s.RecomputePicks(userID, seasonID)
		if err != nil {
			log.Printf("[DraftService] Ошибка пересчёта пиков user=%d season=%d: %v", userID, seasonID, err)
			continue
		}
		results[userID] = result
	}
	return results, nil
}

// GetTeam возвращает команду пользователя: активные пики, очередь замен и историю
func (s *DraftService) GetTeam(userID, seasonID uint) (*TeamView, error) {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, err
	}

	active, err := s.draftPickRepo.GetActive(userID, seasonID)
	if err != nil {
		return nil, err
	}
	history, err := s.draftPickRepo.GetHistory(userID, seasonID)
	if err != nil {
		return nil, err
	}

	entries, err := s.rankingRepo.GetByUserSeason(userID, seasonID)
	if err != nil {
		return nil, err
	}

	view := &TeamView{
		ActivePicks:      active,
		ReplacementQueue: []uint{},
		History:          history,
	}
	if len(entries) == 0 {
		return view, nil
	}

	contestants, err := s.contestantRepo.GetBySeason(seasonID)
	if err != nil {
		return nil, err
	}

	ranking := make(map[uint]int, len(entries))
	for _, e := range entries {
		ranking[e.ContestantID] = e.Position
	}
	eliminated := make(map[uint]bool)
	for _, c := range contestants {
		if c.Eliminated {
			eliminated[c.ID] = true
		}
	}
	activeIDs := make([]uint, len(active))
	for i, p := range active {
		activeIDs[i] = p.ContestantID
	}

	queue, err := draftengine.ComputeReplacementQueue(ranking, eliminated, activeIDs)
	if err != nil {
		log.Printf("[DraftService] Ошибка вычисления очереди замен user=%d season=%d: %v", userID, season.ID, err)
		return nil, err
	}
	view.ReplacementQueue = queue
	return view, nil
}
