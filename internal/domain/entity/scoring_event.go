package entity

import (
	"time"
)

// ScoringEvent представляет одно событие начисления очков, введённое
// администратором при оценке эпизода. Points фиксируется на момент ввода,
// чтобы последующее редактирование категории не меняло историю.
type ScoringEvent struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	EpisodeID    uint `gorm:"not null;index" json:"episode_id"`
	ContestantID uint `gorm:"not null;index" json:"contestant_id"`
	CategoryID   uint `gorm:"not null" json:"category_id"`
	Points       int  `gorm:"not null" json:"points"`
	CreatedBy    uint `gorm:"not null" json:"created_by"` // ID администратора

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ScoringEvent) TableName() string {
	return "scoring_events"
}
