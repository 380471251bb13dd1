package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// leaderboardCacheTTL ограничивает жизнь снапшота лидерборда в Redis.
// Снапшот дополнительно инвалидируется при финализации эпизода, TTL —
// страховка от застрявшего ключа.
const leaderboardCacheTTL = 5 * time.Minute

// leaderboardCacheKey возвращает ключ снапшота лидерборда сезона
func leaderboardCacheKey(seasonID uint) string {
	return fmt.Sprintf("leaderboard:season:%d", seasonID)
}

// LeaderboardEntry — строка лидерборда с присвоенным местом
type LeaderboardEntry struct {
	Rank              int    `json:"rank"`
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	ProfilePicture    string `json:"profile_picture"`
	TotalPoints       int    `json:"total_points"`
	SoleSurvivorBonus int    `json:"sole_survivor_bonus"`
}

// Leaderboard — пагинированный ответ лидерборда
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// LeaderboardService строит лидерборд сезона с кешированием снапшота в Redis
type LeaderboardService struct {
	episodeScoreRepo repository.EpisodeScoreRepository
	cacheRepo        repository.CacheRepository
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(
	episodeScoreRepo repository.EpisodeScoreRepository,
	cacheRepo repository.CacheRepository,
) *LeaderboardService {
	return &LeaderboardService{
		episodeScoreRepo: episodeScoreRepo,
		cacheRepo:        cacheRepo,
	}
}

// AssignRanks присваивает места по суммарным очкам. Полный порядок:
// очки по убыванию, затем бонус sole survivor по убыванию, затем ID
// пользователя по возрастанию. Места строго последовательные 1..N —
// при равенстве очков делённых мест нет, тай-брейк решает.
func AssignRanks(totals []repository.UserSeasonTotal) []LeaderboardEntry {
	sorted := make([]repository.UserSeasonTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		if sorted[i].SoleSurvivorBonus != sorted[j].SoleSurvivorBonus {
			return sorted[i].SoleSurvivorBonus > sorted[j].SoleSurvivorBonus
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, t := range sorted {
		entries[i] = LeaderboardEntry{
			Rank:              i + 1,
			UserID:            t.UserID,
			Username:          t.Username,
			ProfilePicture:    t.ProfilePicture,
			TotalPoints:       t.TotalPoints,
			SoleSurvivorBonus: t.SoleSurvivorBonus,
		}
	}
	return entries
}

// GetLeaderboard возвращает страницу лидерборда сезона. Полный отсортированный
// снапшот кешируется целиком, пагинация режет его в памяти.
func (s *LeaderboardService) GetLeaderboard(seasonID uint, page, pageSize int) (*Leaderboard, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	entries, err := s.snapshot(seasonID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	end := offset + pageSize
	if offset > len(entries) {
		offset = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}

	return &Leaderboard{
		Entries: entries[offset:end],
		Total:   len(entries),
		Page:    page,
		PerPage: pageSize,
	}, nil
}

func (s *LeaderboardService) snapshot(seasonID uint) ([]LeaderboardEntry, error) {
	key := leaderboardCacheKey(seasonID)

	var cached []LeaderboardEntry
	err := s.cacheRepo.GetJSON(key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		// Redis недоступен — строим лидерборд напрямую из БД
		log.Printf("[LeaderboardService] Ошибка чтения кеша лидерборда season=%d: %v", seasonID, err)
	}

	totals, err := s.episodeScoreRepo.SumBySeason(seasonID)
	if err != nil {
		return nil, err
	}
	entries := AssignRanks(totals)

	if err := s.cacheRepo.SetJSON(key, entries, leaderboardCacheTTL); err != nil {
		log.Printf("[LeaderboardService] Ошибка записи кеша лидерборда season=%d: %v", seasonID, err)
	}
	return entries, nil
}

// GetUserBreakdown возвращает поэпизодную разбивку очков пользователя в сезоне
func (s *LeaderboardService) GetUserBreakdown(userID, seasonID uint) ([]entity.EpisodeScore, error) {
	return s.episodeScoreRepo.GetByUser(userID, seasonID)
}
