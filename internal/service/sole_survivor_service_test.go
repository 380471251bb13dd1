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
// Моки для SoleSurvivorService
// ============================================================================

// MockSoleSurvivorRepo реализует repository.SoleSurvivorRepository
type MockSoleSurvivorRepo struct {
	mock.Mock
}

func (m *MockSoleSurvivorRepo) GetActive(userID, seasonID uint) (*entity.SoleSurvivorPick, error) {
	args := m.Called(userID, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SoleSurvivorPick), args.Error(1)
}

func (m *MockSoleSurvivorRepo) GetActiveBySeason(seasonID uint) ([]entity.SoleSurvivorPick, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SoleSurvivorPick), args.Error(1)
}

func (m *MockSoleSurvivorRepo) GetHistory(userID, seasonID uint) ([]entity.SoleSurvivorPick, error) {
	args := m.Called(userID, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SoleSurvivorPick), args.Error(1)
}

func (m *MockSoleSurvivorRepo) Replace(pick *entity.SoleSurvivorPick) error {
	args := m.Called(pick)
	return args.Error(0)
}

func (m *MockSoleSurvivorRepo) IncrementEpisodesHeld(tx *gorm.DB, userID, seasonID uint) error {
	args := m.Called(tx, userID, seasonID)
	return args.Error(0)
}

// MockContestantRepoForSS реализует repository.ContestantRepository
type MockContestantRepoForSS struct {
	mock.Mock
}

func (m *MockContestantRepoForSS) Create(contestant *entity.Contestant) error {
	args := m.Called(contestant)
	return args.Error(0)
}

func (m *MockContestantRepoForSS) Update(contestant *entity.Contestant) error {
	args := m.Called(contestant)
	return args.Error(0)
}

func (m *MockContestantRepoForSS) GetByID(id uint) (*entity.Contestant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contestant), args.Error(1)
}

func (m *MockContestantRepoForSS) GetBySeason(seasonID uint) ([]entity.Contestant, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Contestant), args.Error(1)
}

func (m *MockContestantRepoForSS) SetElimination(contestantID uint, eliminated bool, episodeNumber *int) error {
	args := m.Called(contestantID, eliminated, episodeNumber)
	return args.Error(0)
}

func (m *MockContestantRepoForSS) AddPoints(tx *gorm.DB, contestantID uint, points int) error {
	args := m.Called(tx, contestantID, points)
	return args.Error(0)
}

func (m *MockContestantRepoForSS) IncrementEpisodesParticipated(tx *gorm.DB, seasonID uint) error {
	args := m.Called(tx, seasonID)
	return args.Error(0)
}

// MockSeasonRepoForSS реализует repository.SeasonRepository
type MockSeasonRepoForSS struct {
	mock.Mock
}

func (m *MockSeasonRepoForSS) Create(season *entity.Season) error {
	args := m.Called(season)
	return args.Error(0)
}

func (m *MockSeasonRepoForSS) Update(season *entity.Season) error {
	args := m.Called(season)
	return args.Error(0)
}

func (m *MockSeasonRepoForSS) GetByID(id uint) (*entity.Season, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Season), args.Error(1)
}

func (m *MockSeasonRepoForSS) GetActive() (*entity.Season, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Season), args.Error(1)
}

func (m *MockSeasonRepoForSS) List() ([]entity.Season, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Season), args.Error(1)
}

// ============================================================================
// Хелперы
// ============================================================================

func createTestSoleSurvivorService(
	ssRepo *MockSoleSurvivorRepo,
	contestantRepo *MockContestantRepoForSS,
	seasonRepo *MockSeasonRepoForSS,
) *SoleSurvivorService {
	return &SoleSurvivorService{
		soleSurvivorRepo: ssRepo,
		contestantRepo:   contestantRepo,
		seasonRepo:       seasonRepo,
	}
}

// withFixedNow подменяет часы сервисного слоя на время теста
func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

// ============================================================================
// Тесты
// ============================================================================

func TestSoleSurvivorService_Select_FirstPickIsOriginal(t *testing.T) {
	// Arrange
	ssRepo := new(MockSoleSurvivorRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestSoleSurvivorService(ssRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, SoleSurvivorDeadline: now.Add(time.Hour)}
	contestant := &entity.Contestant{ID: 10, SeasonID: 1, Name: "Rob"}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)
	ssRepo.On("GetHistory", uint(5), uint(1)).Return([]entity.SoleSurvivorPick{}, nil)
	ssRepo.On("Replace", mock.AnythingOfType("*entity.SoleSurvivorPick")).Return(nil)

	// Act
	pick, err := svc.Select(5, 1, 10)

	// Assert
	require.NoError(t, err)
	assert.True(t, pick.IsOriginal, "первый пик должен быть оригинальным")
	assert.True(t, pick.Active)
	assert.Equal(t, uint(10), pick.ContestantID)
	assert.Equal(t, now, pick.SelectedAt)
	ssRepo.AssertExpectations(t)
}

func TestSoleSurvivorService_Select_ReplacementNotOriginal(t *testing.T) {
	// Arrange: у пользователя уже был пик — замена не считается оригинальной
	ssRepo := new(MockSoleSurvivorRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestSoleSurvivorService(ssRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, SoleSurvivorDeadline: now.Add(time.Hour)}
	contestant := &entity.Contestant{ID: 11, SeasonID: 1, Name: "Parvati"}
	history := []entity.SoleSurvivorPick{{ID: 1, UserID: 5, SeasonID: 1, ContestantID: 10}}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetByID", uint(11)).Return(contestant, nil)
	ssRepo.On("GetHistory", uint(5), uint(1)).Return(history, nil)
	ssRepo.On("Replace", mock.AnythingOfType("*entity.SoleSurvivorPick")).Return(nil)

	// Act
	pick, err := svc.Select(5, 1, 11)

	// Assert
	require.NoError(t, err)
	assert.False(t, pick.IsOriginal)
}

func TestSoleSurvivorService_Select_AfterDeadline(t *testing.T) {
	// Arrange: дедлайн прошёл
	ssRepo := new(MockSoleSurvivorRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestSoleSurvivorService(ssRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, SoleSurvivorDeadline: now.Add(-time.Minute)}
	seasonRepo.On("GetByID", uint(1)).Return(season, nil)

	// Act
	_, err := svc.Select(5, 1, 10)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	ssRepo.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestSoleSurvivorService_Select_WrongSeason(t *testing.T) {
	// Arrange: участник из другого сезона
	ssRepo := new(MockSoleSurvivorRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestSoleSurvivorService(ssRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, SoleSurvivorDeadline: now.Add(time.Hour)}
	contestant := &entity.Contestant{ID: 10, SeasonID: 2, Name: "Sandra"}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)

	// Act
	_, err := svc.Select(5, 1, 10)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnknownContestant)
}

func TestSoleSurvivorService_Select_EliminatedContestantAllowed(t *testing.T) {
	// Тест: выбор уже выбывшего участника легален — пик принимается,
	// просто никогда не принесёт бонусных очков
	ssRepo := new(MockSoleSurvivorRepo)
	contestantRepo := new(MockContestantRepoForSS)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestSoleSurvivorService(ssRepo, contestantRepo, seasonRepo)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, SoleSurvivorDeadline: now.Add(time.Hour)}
	contestant := &entity.Contestant{ID: 10, SeasonID: 1, Name: "Russell", Eliminated: true}

	seasonRepo.On("GetByID", uint(1)).Return(season, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)
	ssRepo.On("GetHistory", uint(5), uint(1)).Return([]entity.SoleSurvivorPick{}, nil)
	ssRepo.On("Replace", mock.AnythingOfType("*entity.SoleSurvivorPick")).Return(nil)

	// Act
	pick, err := svc.Select(5, 1, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(10), pick.ContestantID)
}

func TestSoleSurvivorService_HasActivePick(t *testing.T) {
	ssRepo := new(MockSoleSurvivorRepo)
	svc := createTestSoleSurvivorService(ssRepo, nil, nil)

	ssRepo.On("GetActive", uint(5), uint(1)).Return(&entity.SoleSurvivorPick{ID: 1}, nil).Once()
	has, err := svc.HasActivePick(5, 1)
	require.NoError(t, err)
	assert.True(t, has)

	ssRepo.On("GetActive", uint(6), uint(1)).Return(nil, apperrors.ErrNotFound).Once()
	has, err = svc.HasActivePick(6, 1)
	require.NoError(t, err)
	assert.False(t, has, "ErrNotFound означает отсутствие пика, а не ошибку")
}
