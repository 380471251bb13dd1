package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ============================================================================
// Моки для ScoringService
// ============================================================================

// MockEpisodeRepo реализует repository.EpisodeRepository
type MockEpisodeRepo struct {
	mock.Mock
}

func (m *MockEpisodeRepo) Create(episode *entity.Episode) error {
	args := m.Called(episode)
	return args.Error(0)
}

func (m *MockEpisodeRepo) Update(episode *entity.Episode) error {
	args := m.Called(episode)
	return args.Error(0)
}

func (m *MockEpisodeRepo) GetByID(id uint) (*entity.Episode, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Episode), args.Error(1)
}

func (m *MockEpisodeRepo) GetBySeason(seasonID uint) ([]entity.Episode, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Episode), args.Error(1)
}

// MockScoreCategoryRepo реализует repository.ScoreCategoryRepository
type MockScoreCategoryRepo struct {
	mock.Mock
}

func (m *MockScoreCategoryRepo) Create(category *entity.ScoreCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockScoreCategoryRepo) Update(category *entity.ScoreCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockScoreCategoryRepo) GetByID(id uint) (*entity.ScoreCategory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ScoreCategory), args.Error(1)
}

func (m *MockScoreCategoryRepo) GetBySeason(seasonID uint) ([]entity.ScoreCategory, error) {
	args := m.Called(seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ScoreCategory), args.Error(1)
}

// MockScoringEventRepo реализует repository.ScoringEventRepository
type MockScoringEventRepo struct {
	mock.Mock
}

func (m *MockScoringEventRepo) Create(event *entity.ScoringEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockScoringEventRepo) GetByEpisode(episodeID uint) ([]entity.ScoringEvent, error) {
	args := m.Called(episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ScoringEvent), args.Error(1)
}

func (m *MockScoringEventRepo) SumPointsByContestant(episodeID uint) (map[uint]int, error) {
	args := m.Called(episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

// ============================================================================
// Хелперы
// ============================================================================

func createTestScoringService(
	episodeRepo *MockEpisodeRepo,
	contestantRepo *MockContestantRepoForSS,
	categoryRepo *MockScoreCategoryRepo,
	eventRepo *MockScoringEventRepo,
) *ScoringService {
	return &ScoringService{
		episodeRepo:    episodeRepo,
		contestantRepo: contestantRepo,
		categoryRepo:   categoryRepo,
		eventRepo:      eventRepo,
	}
}

// ============================================================================
// Тесты для RecordEvent
// ============================================================================

func TestScoringService_RecordEvent_Success(t *testing.T) {
	// Arrange
	episodeRepo := new(MockEpisodeRepo)
	contestantRepo := new(MockContestantRepoForSS)
	categoryRepo := new(MockScoreCategoryRepo)
	eventRepo := new(MockScoringEventRepo)
	svc := createTestScoringService(episodeRepo, contestantRepo, categoryRepo, eventRepo)

	episode := &entity.Episode{ID: 3, SeasonID: 1, Number: 3}
	contestant := &entity.Contestant{ID: 10, SeasonID: 1, Name: "Tony"}
	category := &entity.ScoreCategory{ID: 7, SeasonID: 1, Code: "immunity_win", Points: 5}

	episodeRepo.On("GetByID", uint(3)).Return(episode, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)
	categoryRepo.On("GetByID", uint(7)).Return(category, nil)
	eventRepo.On("Create", mock.AnythingOfType("*entity.ScoringEvent")).Return(nil)

	// Act
	event, err := svc.RecordEvent(3, 10, 7, 99)

	// Assert: очки категории зафиксированы в событии
	require.NoError(t, err)
	assert.Equal(t, 5, event.Points)
	assert.Equal(t, uint(99), event.CreatedBy)
	eventRepo.AssertExpectations(t)
}

func TestScoringService_RecordEvent_LockedEpisode(t *testing.T) {
	// Arrange: эпизод заблокирован после финализации
	episodeRepo := new(MockEpisodeRepo)
	eventRepo := new(MockScoringEventRepo)
	svc := createTestScoringService(episodeRepo, nil, nil, eventRepo)

	episode := &entity.Episode{ID: 3, SeasonID: 1, Locked: true}
	episodeRepo.On("GetByID", uint(3)).Return(episode, nil)

	// Act
	_, err := svc.RecordEvent(3, 10, 7, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	eventRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestScoringService_RecordEvent_ContestantFromOtherSeason(t *testing.T) {
	// Arrange
	episodeRepo := new(MockEpisodeRepo)
	contestantRepo := new(MockContestantRepoForSS)
	svc := createTestScoringService(episodeRepo, contestantRepo, nil, nil)

	episode := &entity.Episode{ID: 3, SeasonID: 1}
	contestant := &entity.Contestant{ID: 10, SeasonID: 2}

	episodeRepo.On("GetByID", uint(3)).Return(episode, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)

	// Act
	_, err := svc.RecordEvent(3, 10, 7, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnknownContestant)
}

func TestScoringService_RecordEvent_CategoryFromOtherSeason(t *testing.T) {
	// Arrange
	episodeRepo := new(MockEpisodeRepo)
	contestantRepo := new(MockContestantRepoForSS)
	categoryRepo := new(MockScoreCategoryRepo)
	svc := createTestScoringService(episodeRepo, contestantRepo, categoryRepo, nil)

	episode := &entity.Episode{ID: 3, SeasonID: 1}
	contestant := &entity.Contestant{ID: 10, SeasonID: 1}
	category := &entity.ScoreCategory{ID: 7, SeasonID: 2, Points: 5}

	episodeRepo.On("GetByID", uint(3)).Return(episode, nil)
	contestantRepo.On("GetByID", uint(10)).Return(contestant, nil)
	categoryRepo.On("GetByID", uint(7)).Return(category, nil)

	// Act
	_, err := svc.RecordEvent(3, 10, 7, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// ============================================================================
// Тесты для FinalizeEpisode
// ============================================================================

func TestScoringService_FinalizeEpisode_AlreadyScored(t *testing.T) {
	// Arrange: повторная финализация отвергается до каких-либо записей
	episodeRepo := new(MockEpisodeRepo)
	eventRepo := new(MockScoringEventRepo)
	svc := createTestScoringService(episodeRepo, nil, nil, eventRepo)

	episode := &entity.Episode{ID: 3, SeasonID: 1, Scored: true, Locked: true}
	episodeRepo.On("GetByID", uint(3)).Return(episode, nil)

	// Act
	err := svc.FinalizeEpisode(3)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	eventRepo.AssertNotCalled(t, "SumPointsByContestant", mock.Anything)
}

// ============================================================================
// Тесты для категорий
// ============================================================================

func TestScoringService_CreateCategory_MissingCode(t *testing.T) {
	categoryRepo := new(MockScoreCategoryRepo)
	svc := createTestScoringService(nil, nil, categoryRepo, nil)

	err := svc.CreateCategory(&entity.ScoreCategory{SeasonID: 1, Name: "Immunity"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestScoringService_CreateCategory_UnknownSeason(t *testing.T) {
	categoryRepo := new(MockScoreCategoryRepo)
	seasonRepo := new(MockSeasonRepoForSS)
	svc := createTestScoringService(nil, nil, categoryRepo, nil)
	svc.seasonRepo = seasonRepo

	seasonRepo.On("GetByID", uint(42)).Return(nil, apperrors.ErrNotFound)

	err := svc.CreateCategory(&entity.ScoreCategory{SeasonID: 42, Code: "immunity_win", Name: "Immunity"})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
