package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
)

// draftReminderWindow — за сколько до дедлайна рассылается напоминание
const draftReminderWindow = 24 * time.Hour

// ReminderService рассылает напоминания о приближающемся дедлайне драфта.
// Запускается периодически из main; отметка в Redis гарантирует, что
// рассылка по сезону уходит один раз.
type ReminderService struct {
	userRepo     repository.UserRepository
	seasonRepo   repository.SeasonRepository
	emailService EmailService
	cacheRepo    repository.CacheRepository
}

// NewReminderService создает новый сервис напоминаний
func NewReminderService(
	userRepo repository.UserRepository,
	seasonRepo repository.SeasonRepository,
	emailService EmailService,
	cacheRepo repository.CacheRepository,
) *ReminderService {
	return &ReminderService{
		userRepo:     userRepo,
		seasonRepo:   seasonRepo,
		emailService: emailService,
		cacheRepo:    cacheRepo,
	}
}

// SendDraftReminders отправляет напоминание всем игрокам, если дедлайн драфта
// активного сезона наступает в ближайшие сутки. Повторные вызовы в пределах
// одного сезона ничего не делают.
func (s *ReminderService) SendDraftReminders(ctx context.Context) {
	season, err := s.seasonRepo.GetActive()
	if err != nil {
		return
	}

	now := nowFunc()
	if !season.DraftOpen(now) {
		return
	}
	if season.DraftDeadline.Sub(now) > draftReminderWindow {
		return
	}

	key := fmt.Sprintf("reminder:draft-deadline:season:%d", season.ID)
	acquired, err := s.cacheRepo.SetNX(key, 1, 72*time.Hour)
	if err != nil {
		log.Printf("[ReminderService] Ошибка отметки рассылки season=%d: %v", season.ID, err)
		return
	}
	if !acquired {
		return
	}

	sent := 0
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		users, err := s.userRepo.List(pageSize, offset)
		if err != nil {
			log.Printf("[ReminderService] Ошибка выборки пользователей: %v", err)
			return
		}
		if len(users) == 0 {
			break
		}
		for _, u := range users {
			if err := s.emailService.SendDraftDeadlineReminder(ctx, u.Email, season.Name, season.DraftDeadline); err != nil {
				log.Printf("[ReminderService] Ошибка отправки напоминания user=%d: %v", u.ID, err)
				continue
			}
			sent++
		}
		if len(users) < pageSize {
			break
		}
	}
	log.Printf("[ReminderService] Напоминания о дедлайне драфта season=%d отправлены: %d", season.ID, sent)
}
