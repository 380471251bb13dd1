package dto

import (
	"time"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// UserResponse представляет публичный профиль пользователя
type UserResponse struct {
	ID                uint      `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePicture    string    `json:"profile_picture"`
	TotalPoints       int       `json:"total_points"`
	SoleSurvivorBonus int       `json:"sole_survivor_bonus"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewUserResponse преобразует entity.User в DTO ответа
func NewUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		ProfilePicture:    user.ProfilePicture,
		TotalPoints:       user.TotalPoints,
		SoleSurvivorBonus: user.SoleSurvivorBonus,
		CreatedAt:         user.CreatedAt,
	}
}
