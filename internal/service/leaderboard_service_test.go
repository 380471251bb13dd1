package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ============================================================================
// Моки для LeaderboardService
// ============================================================================

// MockEpisodeScoreRepoForLeaderboard реализует repository.EpisodeScoreRepository
type MockEpisodeScoreRepoForLeaderboard struct {
	mock.Mock
}

func (m *MockEpisodeScoreRepoForLeaderboard) CreateBatch(tx *gorm.DB, scores []entity.EpisodeScore) error {
	args := m.Called(tx, scores)
	return args.Error(0)
}

func (m *MockEpisodeScoreRepoForLeaderboard) GetByUser(userID, seasonID uint) ([]entity.EpisodeScore, error) {
	args := m.Called(userID, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EpisodeScore), args.Error(1)
}

func (m *MockEpisodeScoreRepoForLeaderboard) SumBySeason(seasonID uint) ([]repository.UserSeasonTotal, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserSeasonTotal), args.Error(1)
}

// MockCacheRepoForLeaderboard реализует repository.CacheRepository
type MockCacheRepoForLeaderboard struct {
	mock.Mock
}

func (m *MockCacheRepoForLeaderboard) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepoForLeaderboard) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepoForLeaderboard) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepoForLeaderboard) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepoForLeaderboard) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepoForLeaderboard) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepoForLeaderboard) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Тесты для AssignRanks
// ============================================================================

func TestAssignRanks_TotalOrder(t *testing.T) {
	// Arrange: очки по убыванию, затем бонус, затем ID
	totals := []repository.UserSeasonTotal{
		{UserID: 3, Username: "carol", TotalPoints: 10, SoleSurvivorBonus: 0},
		{UserID: 1, Username: "alice", TotalPoints: 25, SoleSurvivorBonus: 5},
		{UserID: 2, Username: "bob", TotalPoints: 25, SoleSurvivorBonus: 8},
	}

	// Act
	entries := AssignRanks(totals)

	// Assert: bob выше alice за счёт большего бонуса при равных очках
	require.Len(t, entries, 3)
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, uint(1), entries[1].UserID)
	assert.Equal(t, uint(3), entries[2].UserID)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestAssignRanks_SequentialRanksUnderTies(t *testing.T) {
	// Тест: при полном равенстве очков и бонусов делённых мест нет,
	// порядок решает ID пользователя
	totals := []repository.UserSeasonTotal{
		{UserID: 7, TotalPoints: 12, SoleSurvivorBonus: 3},
		{UserID: 2, TotalPoints: 12, SoleSurvivorBonus: 3},
		{UserID: 5, TotalPoints: 12, SoleSurvivorBonus: 3},
	}

	entries := AssignRanks(totals)

	require.Len(t, entries, 3)
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, uint(5), entries[1].UserID)
	assert.Equal(t, uint(7), entries[2].UserID)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank, "места строго последовательные")
	}
}

func TestAssignRanks_Empty(t *testing.T) {
	entries := AssignRanks(nil)
	assert.Empty(t, entries)
}

// ============================================================================
// Тесты для GetLeaderboard
// ============================================================================

func TestLeaderboardService_GetLeaderboard_CacheMiss(t *testing.T) {
	// Arrange
	mockScores := new(MockEpisodeScoreRepoForLeaderboard)
	mockCache := new(MockCacheRepoForLeaderboard)

	totals := []repository.UserSeasonTotal{
		{UserID: 1, Username: "alice", TotalPoints: 20},
		{UserID: 2, Username: "bob", TotalPoints: 30},
	}

	key := leaderboardCacheKey(4)
	mockCache.On("GetJSON", key, mock.Anything).Return(apperrors.ErrNotFound)
	mockScores.On("SumBySeason", uint(4)).Return(totals, nil)
	mockCache.On("SetJSON", key, mock.Anything, leaderboardCacheTTL).Return(nil)

	svc := NewLeaderboardService(mockScores, mockCache)

	// Act
	board, err := svc.GetLeaderboard(4, 1, 20)

	// Assert
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, uint(2), board.Entries[0].UserID, "bob лидирует по очкам")
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 2, board.Total)
	mockScores.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestLeaderboardService_GetLeaderboard_Pagination(t *testing.T) {
	// Arrange: 5 пользователей, страница 2 по 2
	mockScores := new(MockEpisodeScoreRepoForLeaderboard)
	mockCache := new(MockCacheRepoForLeaderboard)

	totals := make([]repository.UserSeasonTotal, 0, 5)
	for i := 1; i <= 5; i++ {
		totals = append(totals, repository.UserSeasonTotal{
			UserID:      uint(i),
			TotalPoints: 100 - i, // user 1 самый сильный
		})
	}

	mockCache.On("GetJSON", mock.Anything, mock.Anything).Return(apperrors.ErrNotFound)
	mockScores.On("SumBySeason", uint(1)).Return(totals, nil)
	mockCache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewLeaderboardService(mockScores, mockCache)

	// Act
	board, err := svc.GetLeaderboard(1, 2, 2)

	// Assert: вторая страница — места 3 и 4
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, 3, board.Entries[0].Rank)
	assert.Equal(t, 4, board.Entries[1].Rank)
	assert.Equal(t, 5, board.Total)
	assert.Equal(t, 2, board.Page)
}

func TestLeaderboardService_GetLeaderboard_RedisDown(t *testing.T) {
	// Тест: при недоступном Redis лидерборд строится напрямую из БД
	mockScores := new(MockEpisodeScoreRepoForLeaderboard)
	mockCache := new(MockCacheRepoForLeaderboard)

	totals := []repository.UserSeasonTotal{{UserID: 1, TotalPoints: 5}}

	mockCache.On("GetJSON", mock.Anything, mock.Anything).Return(assert.AnError)
	mockScores.On("SumBySeason", uint(9)).Return(totals, nil)
	mockCache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewLeaderboardService(mockScores, mockCache)

	board, err := svc.GetLeaderboard(9, 1, 10)

	require.NoError(t, err, "ошибка кеша не должна ломать лидерборд")
	assert.Len(t, board.Entries, 1)
}
