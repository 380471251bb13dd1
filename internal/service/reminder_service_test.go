package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPickReplacedNotice(ctx context.Context, toEmail, eliminatedName, replacementName, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, eliminatedName, replacementName, idempotencyKey)
	return args.Error(0)
}

func (m *MockEmailService) SendDraftDeadlineReminder(ctx context.Context, toEmail, seasonName string, deadline time.Time) error {
	args := m.Called(ctx, toEmail, seasonName, deadline)
	return args.Error(0)
}

func TestReminderService_SendDraftReminders_WithinWindow(t *testing.T) {
	// Arrange: до дедлайна меньше суток — рассылка уходит каждому пользователю
	userRepo := new(MockUserRepoForAuth)
	seasonRepo := new(MockSeasonRepoForSS)
	emailService := new(MockEmailService)
	cache := new(MockCacheRepoForLeaderboard)
	svc := NewReminderService(userRepo, seasonRepo, emailService, cache)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, Name: "Season 48", Active: true, DraftDeadline: now.Add(6 * time.Hour)}
	users := []entity.User{
		{ID: 1, Email: "alice@example.com"},
		{ID: 2, Email: "bob@example.com"},
	}

	seasonRepo.On("GetActive").Return(season, nil)
	cache.On("SetNX", "reminder:draft-deadline:season:1", 1, 72*time.Hour).Return(true, nil)
	userRepo.On("List", 200, 0).Return(users, nil)
	emailService.On("SendDraftDeadlineReminder", mock.Anything, "alice@example.com", "Season 48", season.DraftDeadline).Return(nil)
	emailService.On("SendDraftDeadlineReminder", mock.Anything, "bob@example.com", "Season 48", season.DraftDeadline).Return(nil)

	// Act
	svc.SendDraftReminders(context.Background())

	// Assert
	emailService.AssertExpectations(t)
}

func TestReminderService_SendDraftReminders_DeadlineFarAway(t *testing.T) {
	// Arrange: до дедлайна больше суток — рано напоминать
	userRepo := new(MockUserRepoForAuth)
	seasonRepo := new(MockSeasonRepoForSS)
	emailService := new(MockEmailService)
	cache := new(MockCacheRepoForLeaderboard)
	svc := NewReminderService(userRepo, seasonRepo, emailService, cache)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, Active: true, DraftDeadline: now.Add(48 * time.Hour)}
	seasonRepo.On("GetActive").Return(season, nil)

	// Act
	svc.SendDraftReminders(context.Background())

	// Assert
	emailService.AssertNotCalled(t, "SendDraftDeadlineReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_SendDraftReminders_AlreadySent(t *testing.T) {
	// Arrange: отметка в Redis уже стоит — повторной рассылки нет
	userRepo := new(MockUserRepoForAuth)
	seasonRepo := new(MockSeasonRepoForSS)
	emailService := new(MockEmailService)
	cache := new(MockCacheRepoForLeaderboard)
	svc := NewReminderService(userRepo, seasonRepo, emailService, cache)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	season := &entity.Season{ID: 1, Active: true, DraftDeadline: now.Add(time.Hour)}
	seasonRepo.On("GetActive").Return(season, nil)
	cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	// Act
	svc.SendDraftReminders(context.Background())

	// Assert
	userRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	emailService.AssertNotCalled(t, "SendDraftDeadlineReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
