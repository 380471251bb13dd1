package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
	"github.com/yourusername/survivor-fantasy-api/pkg/auth"
)

// TokenPair — пара access/refresh токенов, выдаваемая при входе
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // срок access-токена в секундах
}

// AuthService обрабатывает регистрацию, вход и ротацию refresh-токенов.
// Access-токен короткоживущий и не отзывается; сессия продлевается
// refresh-токеном, который хранится в БД и ротируется при каждом обновлении.
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtService       *auth.JWTService

	accessExpiration time.Duration
	refreshTTL       time.Duration
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	accessExpirationHrs int,
	refreshTTLDays int,
) *AuthService {
	if accessExpirationHrs <= 0 {
		accessExpirationHrs = 1
	}
	if refreshTTLDays <= 0 {
		refreshTTLDays = 30
	}
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		accessExpiration: time.Duration(accessExpirationHrs) * time.Hour,
		refreshTTL:       time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Register создает нового пользователя с ролью "user"
func (s *AuthService) Register(username, email, password string) (*entity.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", apperrors.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email %q is already registered", apperrors.ErrConflict, email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username %q is already taken", apperrors.ErrConflict, username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     entity.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка создания пользователя email=%s: %v", email, err)
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь id=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login проверяет учётные данные и выдает пару токенов
func (s *AuthService) Login(email, password string) (*TokenPair, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh ротирует refresh-токен и выдает новую пару.
// Старый токен отзывается: каждый refresh-токен одноразовый.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.GetByToken(refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !stored.IsValid(time.Now()) {
		return nil, apperrors.ErrExpiredToken
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Revoke(refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Logout отзывает refresh-токен текущей сессии
func (s *AuthService) Logout(refreshToken string) error {
	return s.refreshTokenRepo.Revoke(refreshToken)
}

// LogoutAll отзывает все refresh-токены пользователя (выход со всех устройств)
func (s *AuthService) LogoutAll(userID uint) error {
	return s.refreshTokenRepo.RevokeAllForUser(userID)
}

// GenerateWSTicket выдает короткоживущий тикет для WebSocket-рукопожатия
func (s *AuthService) GenerateWSTicket(userID uint) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	return s.jwtService.GenerateWSTicket(user.ID, user.Email)
}

// CleanupExpiredTokens удаляет истекшие и отозванные refresh-токены.
// Вызывается периодически из main.
func (s *AuthService) CleanupExpiredTokens() {
	deleted, err := s.refreshTokenRepo.DeleteExpired()
	if err != nil {
		log.Printf("[AuthService] Ошибка очистки refresh-токенов: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[AuthService] Удалено %d истекших refresh-токенов", deleted)
	}
}

func (s *AuthService) issueTokens(user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	refresh := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int(s.accessExpiration.Seconds()),
	}, nil
}
