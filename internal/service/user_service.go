package service

import (
	"fmt"
	"log"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID возвращает пользователя по ID
func (s *UserService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile обновляет профиль пользователя (имя и аватар)
func (s *UserService) UpdateProfile(userID uint, username, profilePicture string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if username != "" && username != user.Username {
		existing, err := s.userRepo.GetByUsername(username)
		if err == nil && existing.ID != userID {
			return nil, fmt.Errorf("%w: username %q is already taken", apperrors.ErrConflict, username)
		}
		updates["username"] = username
	}
	if profilePicture != user.ProfilePicture {
		updates["profile_picture"] = profilePicture
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		log.Printf("[UserService] Ошибка обновления профиля user=%d: %v", userID, err)
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль пользователя после проверки старого
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	// BeforeSave захеширует новый пароль
	user.Password = newPassword
	return s.userRepo.Update(user)
}
