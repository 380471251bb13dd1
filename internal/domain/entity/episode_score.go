package entity

import (
	"time"
)

// EpisodeScore представляет очки пользователя за один эпизод: сумма очков
// его активных пиков плюс бонус sole survivor. Записывается при финализации
// эпизода и служит историей для разбивки тотала.
type EpisodeScore struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	UserID            uint `gorm:"not null;uniqueIndex:idx_user_episode" json:"user_id"`
	EpisodeID         uint `gorm:"not null;uniqueIndex:idx_user_episode" json:"episode_id"`
	PickPoints        int  `gorm:"not null;default:0" json:"pick_points"`
	SoleSurvivorBonus int  `gorm:"not null;default:0" json:"sole_survivor_bonus"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (EpisodeScore) TableName() string {
	return "episode_scores"
}

// Total возвращает суммарные очки пользователя за эпизод
func (e *EpisodeScore) Total() int {
	return e.PickPoints + e.SoleSurvivorBonus
}
