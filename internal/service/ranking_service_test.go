package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ============================================================================
// Моки для RankingService
// ============================================================================

// MockRankingRepo реализует repository.RankingRepository
type MockRankingRepo struct {
	mock.Mock
}

func (m *MockRankingRepo) GetByUserSeason(userID, seasonID uint) ([]entity.RankingEntry, error) {
	args := m.Called(userID, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RankingEntry), args.Error(1)
}

func (m *MockRankingRepo) ReplaceSet(tx *gorm.DB, userID, seasonID uint, entries []entity.RankingEntry) error {
	args := m.Called(tx, userID, seasonID, entries)
	return args.Error(0)
}

func (m *MockRankingRepo) MarkSubmitted(userID, seasonID uint) error {
	args := m.Called(userID, seasonID)
	return args.Error(0)
}

func (m *MockRankingRepo) UserIDsWithRanking(seasonID uint) ([]uint, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockRankingRepo) LockUserSeason(tx *gorm.DB, userID, seasonID uint) error {
	args := m.Called(tx, userID, seasonID)
	return args.Error(0)
}

// ============================================================================
// Хелперы
// ============================================================================

func createTestRankingService(
	rankingRepo *MockRankingRepo,
	contestantRepo *MockContestantRepoForSS,
	seasonRepo *MockSeasonRepoForSS,
) *RankingService {
	return &RankingService{
		rankingRepo:    rankingRepo,
		contestantRepo: contestantRepo,
		seasonRepo:     seasonRepo,
	}
}

// ============================================================================
// Тесты
// ============================================================================

func TestRankingService_ReplaceRanking_AfterDeadline(t *testing.T) {
	// Arrange: дедлайн драфта прошёл — рейтинг заморожен
	rankingRepo := new(MockRankingRepo)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestRankingService(rankingRepo, nil, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, DraftDeadline: now.Add(-time.Hour)}
	seasonRepo.On("GetByID", uint(1)).Return(season, nil)

	// Act
	err := svc.ReplaceRanking(5, 1, []uint{1, 2, 3})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	rankingRepo.AssertNotCalled(t, "ReplaceSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRankingService_ReplaceRanking_DuplicateContestant(t *testing.T) {
	// Arrange: один участник встречается в порядке дважды
	rankingRepo := new(MockRankingRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestRankingService(rankingRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, DraftDeadline: now.Add(time.Hour)}
	contestants := []entity.Contestant{{ID: 1, SeasonID: 1}, {ID: 2, SeasonID: 1}, {ID: 3, SeasonID: 1}}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetBySeason", uint(1)).Return(contestants, nil)

	// Act
	err := svc.ReplaceRanking(5, 1, []uint{1, 2, 1})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrMalformedRanking)
}

func TestRankingService_ReplaceRanking_IncompletePermutation(t *testing.T) {
	// Arrange: порядок покрывает не всех участников сезона
	rankingRepo := new(MockRankingRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestRankingService(rankingRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, DraftDeadline: now.Add(time.Hour)}
	contestants := []entity.Contestant{{ID: 1, SeasonID: 1}, {ID: 2, SeasonID: 1}, {ID: 3, SeasonID: 1}}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetBySeason", uint(1)).Return(contestants, nil)

	// Act
	err := svc.ReplaceRanking(5, 1, []uint{1, 2})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrMalformedRanking)
}

func TestRankingService_ReplaceRanking_UnknownContestant(t *testing.T) {
	// Arrange: в порядке есть ID не из сезона
	rankingRepo := new(MockRankingRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestRankingService(rankingRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, DraftDeadline: now.Add(time.Hour)}
	contestants := []entity.Contestant{{ID: 1, SeasonID: 1}, {ID: 2, SeasonID: 1}}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetBySeason", uint(1)).Return(contestants, nil)

	// Act
	err := svc.ReplaceRanking(5, 1, []uint{1, 99})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnknownContestant)
}

func TestRankingService_SubmitRanking_NoRanking(t *testing.T) {
	// Arrange: отправлять нечего
	rankingRepo := new(MockRankingRepo)
	svc := createTestRankingService(rankingRepo, nil, nil)

	rankingRepo.On("GetByUserSeason", uint(5), uint(1)).Return([]entity.RankingEntry{}, nil)

	// Act
	err := svc.SubmitRanking(5, 1)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	rankingRepo.AssertNotCalled(t, "MarkSubmitted", mock.Anything, mock.Anything)
}

func TestRankingService_SubmitRanking_Success(t *testing.T) {
	rankingRepo := new(MockRankingRepo)
	svc := createTestRankingService(rankingRepo, nil, nil)

	entries := []entity.RankingEntry{{UserID: 5, SeasonID: 1, ContestantID: 1, Position: 1}}
	rankingRepo.On("GetByUserSeason", uint(5), uint(1)).Return(entries, nil)
	rankingRepo.On("MarkSubmitted", uint(5), uint(1)).Return(nil)

	err := svc.SubmitRanking(5, 1)

	require.NoError(t, err)
	rankingRepo.AssertExpectations(t)
}
