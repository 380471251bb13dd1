package entity

import (
	"time"
)

// RankingEntry представляет одну позицию в рейтинге предпочтений пользователя.
// Инвариант: позиции пользователя в рамках сезона образуют перестановку 1..N
// без дубликатов (N — число участников сезона). Инвариант проверяется сервисом
// перед записью, уникальные индексы страхуют на уровне БД.
type RankingEntry struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_ranking_contestant;uniqueIndex:idx_ranking_position" json:"user_id"`
	SeasonID     uint       `gorm:"not null;uniqueIndex:idx_ranking_contestant;uniqueIndex:idx_ranking_position" json:"season_id"`
	ContestantID uint       `gorm:"not null;uniqueIndex:idx_ranking_contestant" json:"contestant_id"`
	Position     int        `gorm:"not null;uniqueIndex:idx_ranking_position" json:"position"` // 1 = самый предпочитаемый
	SubmittedAt  *time.Time `gorm:"type:timestamp" json:"submitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RankingEntry) TableName() string {
	return "ranking_entries"
}
